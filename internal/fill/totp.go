package fill

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP holds the parameters of a time-based one-time password (RFC 6238)
type TOTP struct {
	Secret    string // Base32, upper case, without spaces or padding
	Digits    otp.Digits
	Period    time.Duration
	Algorithm otp.Algorithm
}

var algorithms = map[string]otp.Algorithm{
	"SHA1":   otp.AlgorithmSHA1,
	"SHA256": otp.AlgorithmSHA256,
	"SHA512": otp.AlgorithmSHA512,
}

// ParseTOTP reads a base32 secret or an otpauth://totp/ URI
func ParseTOTP(raw string) (*TOTP, error) {
	t := &TOTP{Digits: otp.DigitsSix, Period: 30 * time.Second, Algorithm: otp.AlgorithmSHA1}

	secret := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(secret), "otpauth://") {
		u, err := url.Parse(secret)
		if err != nil {
			return nil, fmt.Errorf("parse otpauth uri: %w", err)
		}
		if !strings.EqualFold(u.Host, "totp") {
			return nil, fmt.Errorf("unsupported otp type %q", u.Host)
		}

		q := u.Query()
		secret = q.Get("secret")
		if d := q.Get("digits"); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil || n < 6 || n > 10 {
				return nil, fmt.Errorf("invalid digits %q", d)
			}
			t.Digits = otp.Digits(n)
		}
		if p := q.Get("period"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid period %q", p)
			}
			t.Period = time.Duration(n) * time.Second
		}
		if a := q.Get("algorithm"); a != "" {
			alg, ok := algorithms[strings.ToUpper(a)]
			if !ok {
				return nil, fmt.Errorf("unsupported totp algorithm %q", a)
			}
			t.Algorithm = alg
		}
	}

	t.Secret = strings.TrimRight(strings.ToUpper(strings.ReplaceAll(secret, " ", "")), "=")
	if t.Secret == "" {
		return nil, errors.New("empty totp secret")
	}
	if _, err := t.At(time.Unix(0, 0)); err != nil {
		return nil, err
	}
	return t, nil
}

// At returns the code valid at instant now
func (t *TOTP) At(now time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(t.Secret, now, totp.ValidateOpts{
		Period:    uint(t.Period / time.Second),
		Digits:    t.Digits,
		Algorithm: t.Algorithm,
	})
	if err != nil {
		return "", fmt.Errorf("totp code: %w", err)
	}
	return code, nil
}

// TOTPGenerator returns a CodeFunc generating codes at the instant now returns
func TOTPGenerator(now func() time.Time) CodeFunc {
	if now == nil {
		now = time.Now
	}
	return func(secret string) (string, error) {
		t, err := ParseTOTP(secret)
		if err != nil {
			return "", err
		}
		return t.At(now())
	}
}
