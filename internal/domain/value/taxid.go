package value

import "strings"

// NormalizeTaxID strips separators and uppercases an RNE identifier.
// Historical data contains dashes and spaces; the canonical form has neither.
func NormalizeTaxID(taxID string) string {
	replacer := strings.NewReplacer(" ", "", "-", "")
	return strings.ToUpper(replacer.Replace(strings.TrimSpace(taxID)))
}

// PadTaxID left-pads short identifiers with zeros. Identifiers with the
// trailing letter pad to 9 characters, bare numeric ones to 8.
func PadTaxID(taxID string) string {
	target := 8
	for _, c := range taxID {
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			target = 9
			break
		}
	}

	for len(taxID) < target {
		taxID = "0" + taxID
	}

	return taxID
}
