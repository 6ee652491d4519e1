package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the fixed scale of the native asset on every supported chain.
const EtherDecimals = 18

// WeiToEther converts an integer wei string to a float ether amount.
func WeiToEther(wei string) (float64, error) {
	if wei == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(wei)
	if err != nil {
		return 0, fmt.Errorf("invalid wei amount %q: %w", wei, err)
	}
	return d.Shift(-EtherDecimals).InexactFloat64(), nil
}
