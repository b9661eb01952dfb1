package vocab

import "github.com/ppiankov/formsense/internal/model"

func exact(h model.Hint, target string) MatcherRule {
	return MatcherRule{Hint: h, Target: target}
}

func partial(h model.Hint, target string) MatcherRule {
	return MatcherRule{Hint: h, Target: target, Partial: true}
}

func pattern(h model.Hint, expr string) MatcherRule {
	return MatcherRule{Hint: h, Target: expr, Regex: true}
}

// Default returns the built-in vocabulary. The exact targets are the
// Android autofill hint constants and the HTML autocomplete tokens.
func Default() Vocabulary {
	return Vocabulary{
		Matchers: []MatcherRule{
			exact(model.HintEmail, "emailAddress"),
			partial(model.HintEmail, "email"),
			exact(model.HintUsername, "username"),
			exact(model.HintUsername, "nickname"),
			exact(model.HintPassword, "password"),
			partial(model.HintPassword, "password"),
			exact(model.HintWifiPassword, "wifiPassword"),
			exact(model.HintPostalAddress, "postalAddress"),
			exact(model.HintPostalCode, "postalCode"),

			exact(model.HintCardNumber, "creditCardNumber"),
			exact(model.HintCardNumber, "cc-number"),
			exact(model.HintCardNumber, "credit_card_number"),
			pattern(model.HintCardNumber, `(cc|card)[-_]?(no|num)`),
			exact(model.HintCardSecurityCode, "creditCardSecurityCode"),
			exact(model.HintCardSecurityCode, "cc-csc"),
			exact(model.HintCardSecurityCode, "credit_card_csv"),
			exact(model.HintCardExpirationDate, "creditCardExpirationDate"),
			exact(model.HintCardExpirationDate, "cc-exp"),
			exact(model.HintCardExpirationMonth, "creditCardExpirationMonth"),
			exact(model.HintCardExpirationMonth, "cc-exp-month"),
			exact(model.HintCardExpirationYear, "creditCardExpirationYear"),
			exact(model.HintCardExpirationYear, "cc-exp-year"),
			exact(model.HintCardExpirationDay, "creditCardExpirationDay"),

			exact(model.HintPostalAddressCountry, "addressCountry"),
			exact(model.HintPostalAddressRegion, "addressRegion"),
			exact(model.HintPostalAddressLocality, "addressLocality"),
			exact(model.HintPostalAddressStreet, "streetAddress"),
			exact(model.HintPostalAddressExtended, "extendedAddress"),
			exact(model.HintPostalAddressExtendedCode, "extendedPostalCode"),
			exact(model.HintPostalAddressAptNumber, "aptNumber"),
			exact(model.HintPostalAddressDependentLocality, "dependentLocality"),

			exact(model.HintPersonName, "personName"),
			exact(model.HintPersonNameGiven, "personGivenName"),
			exact(model.HintPersonNameFamily, "personFamilyName"),
			exact(model.HintPersonNameMiddle, "personMiddleName"),
			exact(model.HintPersonNameMiddleInitial, "personMiddleInitial"),
			exact(model.HintPersonNamePrefix, "personNamePrefix"),
			exact(model.HintPersonNameSuffix, "personNameSuffix"),

			exact(model.HintPhoneNumber, "phoneNumber"),
			exact(model.HintPhoneNumberDevice, "phoneNumberDevice"),
			exact(model.HintPhoneCountryCode, "phoneCountryCode"),
			exact(model.HintPhoneNational, "phoneNational"),
			exact(model.HintPhoneNumber, "phone"),

			exact(model.HintNewUsername, "newUsername"),
			exact(model.HintNewUsername, "new-username"),
			exact(model.HintNewPassword, "newPassword"),
			exact(model.HintNewPassword, "new-password"),

			exact(model.HintGender, "gender"),
			exact(model.HintBirthDateFull, "birthDateFull"),
			exact(model.HintBirthDateDay, "birthDateDay"),
			exact(model.HintBirthDateMonth, "birthDateMonth"),
			exact(model.HintBirthDateYear, "birthDateYear"),

			exact(model.HintSMSOTP, "smsOTPCode"),
			exact(model.HintEmailOTP, "emailOTPCode"),
			exact(model.HintAppOTP, "2faAppOTPCode"),
			exact(model.HintAppOTP, "one-time-code"),

			exact(model.HintNotApplicable, "notApplicable"),
			exact(model.HintPromoCode, "promoCode"),
			exact(model.HintUPIVPA, "upiVirtualPaymentAddress"),

			// off
			exact(model.HintOff, "chrome-off"),
			exact(model.HintOff, "off"),
			exact(model.HintOff, "no"),
			exact(model.HintOff, "nope"),
		},
		Labels: LabelLists{
			Email: []string{
				"email", "e-mail",
				"почта", "пошта", "мейл", "мэйл", "майл",
				"电子邮箱", "電子郵箱",
			},
			Username: []string{
				"nickname", "username", "utilisateur", "login",
				"логин", "логін", "користувач", "пользовател",
				"用户名", "用戶名",
			},
			Password: []string{
				"password", "парол", "parol", "passwort", "passe",
				"密码", "密碼",
			},
			CardNumber: []string{
				`.*(credit|debit|card)+.*number.*`,
			},
		},
	}
}

// DefaultTable returns the compiled built-in vocabulary
func DefaultTable() *Table {
	return MustCompile(Default())
}
