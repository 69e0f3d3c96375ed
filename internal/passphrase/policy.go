// Package passphrase generates and evaluates master passphrases for new
// Password Safe databases. It follows the character pools and weakness
// rule of the original library, with its password-generation loop
// reworked to terminate deterministically rather than looping until a lucky
// draw happens to touch every enabled character class.
package passphrase

// Character pools, standard and "easy vision" (confusable glyphs removed).
var (
	LowercaseChars = []rune("abcdefghijklmnopqrstuvwxyz")
	UppercaseChars = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	DigitChars     = []rune("1234567890")
	SymbolChars    = []rune(`+-=_@#$%^&;:,.<>/~\[](){}?!|`)

	EasyVisionLowercaseChars = []rune("abcdefghijkmnopqrstuvwxyz")
	EasyVisionUppercaseChars = []rune("ABCDEFGHJKLMNPQRTUVWXY")
	EasyVisionDigitChars     = []rune("346789")
	EasyVisionSymbolChars    = []rune(`+-=_@#$%^&<>/~\?`)
)

// MinPasswordLength is the minimum length a password must reach to avoid
// being flagged weak by IsWeak.
const MinPasswordLength = 4

// Policy describes the character classes and length a generated passphrase
// should draw from.
type Policy struct {
	Length         int
	LowercaseChars bool
	UppercaseChars bool
	DigitChars     bool
	SymbolChars    bool
	EasyVision     bool
}

// Valid reports whether the policy selects at least one character class and
// a positive length no shorter than the number of selected classes (each
// selected class must appear at least once).
func (p Policy) Valid() bool {
	if p.Length <= 0 {
		return false
	}
	classes := p.classCount()
	return classes > 0 && p.Length >= classes
}

func (p Policy) classCount() int {
	n := 0
	if p.DigitChars {
		n++
	}
	if p.LowercaseChars {
		n++
	}
	if p.UppercaseChars {
		n++
	}
	if p.SymbolChars {
		n++
	}
	return n
}

func (p Policy) pools() [][]rune {
	var pools [][]rune
	if p.EasyVision {
		if p.DigitChars {
			pools = append(pools, EasyVisionDigitChars)
		}
		if p.LowercaseChars {
			pools = append(pools, EasyVisionLowercaseChars)
		}
		if p.UppercaseChars {
			pools = append(pools, EasyVisionUppercaseChars)
		}
		if p.SymbolChars {
			pools = append(pools, EasyVisionSymbolChars)
		}
		return pools
	}
	if p.DigitChars {
		pools = append(pools, DigitChars)
	}
	if p.LowercaseChars {
		pools = append(pools, LowercaseChars)
	}
	if p.UppercaseChars {
		pools = append(pools, UppercaseChars)
	}
	if p.SymbolChars {
		pools = append(pools, SymbolChars)
	}
	return pools
}
