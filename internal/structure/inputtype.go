package structure

// InputType is a packed input type: class bits plus variation bits, using
// the Android InputType values so that device dumps can be fed unchanged.
type InputType int

const (
	MaskClass     InputType = 0x0000000f
	MaskVariation InputType = 0x00000ff0

	ClassText     InputType = 0x00000001
	ClassNumber   InputType = 0x00000002
	ClassPhone    InputType = 0x00000003
	ClassDateTime InputType = 0x00000004
)

// Text variations
const (
	TextVariationNormal          InputType = 0x00000000
	TextVariationURI             InputType = 0x00000010
	TextVariationEmailAddress    InputType = 0x00000020
	TextVariationEmailSubject    InputType = 0x00000030
	TextVariationShortMessage    InputType = 0x00000040
	TextVariationLongMessage     InputType = 0x00000050
	TextVariationPersonName      InputType = 0x00000060
	TextVariationPostalAddress   InputType = 0x00000070
	TextVariationPassword        InputType = 0x00000080
	TextVariationVisiblePassword InputType = 0x00000090
	TextVariationWebEditText     InputType = 0x000000a0
	TextVariationFilter          InputType = 0x000000b0
	TextVariationPhonetic        InputType = 0x000000c0
	TextVariationWebEmailAddress InputType = 0x000000d0
	TextVariationWebPassword     InputType = 0x000000e0
)

// Number variations
const (
	NumberVariationNormal   InputType = 0x00000000
	NumberVariationPassword InputType = 0x00000010
)

// Class returns the class bits
func (t InputType) Class() InputType {
	return t & MaskClass
}

// Variation returns the variation bits
func (t InputType) Variation() InputType {
	return t & MaskVariation
}

// IsVariation reports whether the variation bits equal any of vs
func (t InputType) IsVariation(vs ...InputType) bool {
	v := t.Variation()
	for _, want := range vs {
		if v == want {
			return true
		}
	}
	return false
}
