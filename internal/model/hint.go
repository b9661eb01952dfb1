package model

// Hint is the semantic meaning inferred for a form field
type Hint string

const (
	HintUsername     Hint = "username"
	HintPassword     Hint = "password"
	HintEmail        Hint = "email_address"
	HintNewUsername  Hint = "new_username"
	HintNewPassword  Hint = "new_password"
	HintWifiPassword Hint = "wifi_password"

	HintPhoneNumber       Hint = "phone_number"
	HintPhoneNumberDevice Hint = "phone_number_device"
	HintPhoneCountryCode  Hint = "phone_country_code"
	HintPhoneNational     Hint = "phone_national"

	HintCardNumber          Hint = "credit_card_number"
	HintCardSecurityCode    Hint = "credit_card_security_code"
	HintCardExpirationDate  Hint = "credit_card_expiration_date"
	HintCardExpirationMonth Hint = "credit_card_expiration_month"
	HintCardExpirationYear  Hint = "credit_card_expiration_year"
	HintCardExpirationDay   Hint = "credit_card_expiration_day"

	HintPostalAddress                  Hint = "postal_address"
	HintPostalCode                     Hint = "postal_code"
	HintPostalAddressCountry           Hint = "postal_address_country"
	HintPostalAddressRegion            Hint = "postal_address_region"
	HintPostalAddressLocality          Hint = "postal_address_locality"
	HintPostalAddressStreet            Hint = "postal_address_street_address"
	HintPostalAddressExtended          Hint = "postal_address_extended_address"
	HintPostalAddressExtendedCode      Hint = "postal_address_extended_postal_code"
	HintPostalAddressAptNumber         Hint = "postal_address_apt_number"
	HintPostalAddressDependentLocality Hint = "postal_address_dependent_locality"

	HintPersonName              Hint = "person_name"
	HintPersonNameGiven         Hint = "person_name_given"
	HintPersonNameFamily        Hint = "person_name_family"
	HintPersonNameMiddle        Hint = "person_name_middle"
	HintPersonNameMiddleInitial Hint = "person_name_middle_initial"
	HintPersonNamePrefix        Hint = "person_name_prefix"
	HintPersonNameSuffix        Hint = "person_name_suffix"

	HintGender         Hint = "gender"
	HintBirthDateFull  Hint = "birth_date_full"
	HintBirthDateDay   Hint = "birth_date_day"
	HintBirthDateMonth Hint = "birth_date_month"
	HintBirthDateYear  Hint = "birth_date_year"

	HintSMSOTP   Hint = "sms_otp"
	HintEmailOTP Hint = "email_otp"
	HintAppOTP   Hint = "app_otp"

	HintNotApplicable Hint = "not_applicable"
	HintPromoCode     Hint = "promo_code"
	HintUPIVPA        Hint = "upi_vpa"

	// HintOff marks a field that explicitly opted out of autofill.
	HintOff Hint = "autofill_disabled"
)

var allHints = []Hint{
	HintUsername, HintPassword, HintEmail, HintNewUsername, HintNewPassword, HintWifiPassword,
	HintPhoneNumber, HintPhoneNumberDevice, HintPhoneCountryCode, HintPhoneNational,
	HintCardNumber, HintCardSecurityCode, HintCardExpirationDate, HintCardExpirationMonth,
	HintCardExpirationYear, HintCardExpirationDay,
	HintPostalAddress, HintPostalCode, HintPostalAddressCountry, HintPostalAddressRegion,
	HintPostalAddressLocality, HintPostalAddressStreet, HintPostalAddressExtended,
	HintPostalAddressExtendedCode, HintPostalAddressAptNumber, HintPostalAddressDependentLocality,
	HintPersonName, HintPersonNameGiven, HintPersonNameFamily, HintPersonNameMiddle,
	HintPersonNameMiddleInitial, HintPersonNamePrefix, HintPersonNameSuffix,
	HintGender, HintBirthDateFull, HintBirthDateDay, HintBirthDateMonth, HintBirthDateYear,
	HintSMSOTP, HintEmailOTP, HintAppOTP,
	HintNotApplicable, HintPromoCode, HintUPIVPA,
	HintOff,
}

// AllHints returns every known hint in declaration order
func AllHints() []Hint {
	out := make([]Hint, len(allHints))
	copy(out, allHints)
	return out
}

// Valid reports whether h is a member of the closed hint set
func (h Hint) Valid() bool {
	for _, known := range allHints {
		if h == known {
			return true
		}
	}
	return false
}

// IsUsernameClass reports whether h identifies the account on a login form
func (h Hint) IsUsernameClass() bool {
	switch h {
	case HintUsername, HintEmail, HintPhoneNumber:
		return true
	}
	return false
}

// IsOneTimeCode reports whether h is a security or one-time code. Such
// fields are often rendered masked and therefore also guessed as passwords.
func (h Hint) IsOneTimeCode() bool {
	switch h {
	case HintCardSecurityCode, HintSMSOTP, HintEmailOTP, HintAppOTP:
		return true
	}
	return false
}

// IsCardIdentity reports whether h belongs to the card number / expiry
// family, which competes with username guesses on numeric inputs.
func (h Hint) IsCardIdentity() bool {
	switch h {
	case HintCardNumber,
		HintCardExpirationDate,
		HintCardExpirationMonth,
		HintCardExpirationYear,
		HintCardExpirationDay:
		return true
	}
	return false
}

// IsLoginIdentity reports whether h can serve as the identity half of a
// saved login
func (h Hint) IsLoginIdentity() bool {
	return h.IsUsernameClass() || h == HintNewUsername
}

// IsLoginSecret reports whether h can serve as the secret half of a saved
// login
func (h Hint) IsLoginSecret() bool {
	return h == HintPassword || h == HintNewPassword
}
