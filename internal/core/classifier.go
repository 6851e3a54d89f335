package core

// TransferClass is the effect a toBox transaction has on the office/treasury
// pair. Legacy data encodes the class in the transaction title; it is
// converted to this tagged value once, at the computation boundary, so
// downstream code never re-parses strings.
type TransferClass int

const (
	// Addition is a plain deposit into the treasury with no offsetting
	// office effect.
	Addition TransferClass = iota

	// TransferToOffice moves money treasury → office (legacy label
	// "oficina": the office receives).
	TransferToOffice

	// TransferToTreasury moves money office → treasury (legacy label
	// "tesoro": the treasury receives).
	TransferToTreasury
)

func (c TransferClass) String() string {
	switch c {
	case TransferToOffice:
		return "toOffice"
	case TransferToTreasury:
		return "toTreasury"
	}
	return "addition"
}

// ClassifyTransfer maps a toBox transaction title to its class. Matching is
// exact on the two reserved words after trim + lowercase; anything else,
// including the empty string, degrades to Addition. There is no error path.
func ClassifyTransfer(title string) TransferClass {
	switch NormalizeName(title) {
	case "oficina":
		return TransferToOffice
	case "tesoro":
		return TransferToTreasury
	}
	return Addition
}
