package coin

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"regexp"
	"strconv"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
)

//-------------- Coin -----------------------

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// AssetID returns the 32 byte asset type identifier of a currency ticker.
// The identifier is the address of the "coin/asset/<ticker>" condition so
// that asset types share the address space with accounts.
func AssetID(ticker string) weave.Address {
	return weave.NewCondition("coin", "asset", []byte(ticker)).Address()
}

// Coin is an amount of a single fungible asset type.
type Coin struct {
	// Asset is the asset type identifier, see AssetID.
	Asset weave.Address `json:"asset"`
	// Amount is the quantity in the smallest indivisible unit.
	Amount uint64 `json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Asset:  AssetID(ticker),
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// Add combines two coins.
// Returns error if they are of different
// asset types, or if the combination would cause
// an overflow
func (c Coin) Add(o Coin) (Coin, error) {
	// A zero value coin without an asset has no influence on the result.
	if len(c.Asset) == 0 && c.Amount == 0 {
		return o, nil
	}
	if len(o.Asset) == 0 && o.Amount == 0 {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Asset, c.Asset)
	}
	sum, carry := bits.Add64(c.Amount, o.Amount, 0)
	if carry != 0 {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d + %d", c.Amount, o.Amount)
	}
	return Coin{Asset: c.Asset, Amount: sum}, nil
}

// Subtract given amount. Subtracting more than is available is an error,
// coins are never negative.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.Amount == 0 {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Asset, c.Asset)
	}
	diff, borrow := bits.Sub64(c.Amount, o.Amount, 0)
	if borrow != 0 {
		return Coin{}, errors.Wrapf(errors.ErrAmount, "%d - %d", c.Amount, o.Amount)
	}
	return Coin{Asset: c.Asset, Amount: diff}, nil
}

// Compare will check values of two coins, without
// inspecting the asset type. It is up to the caller
// to determine if they want to check this.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.SameType(o) && c.Amount == o.Amount
}

// IsZero returns true amounts are 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is same type and at least
// as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same asset type
func (c Coin) SameType(o Coin) bool {
	return c.Asset.Equals(o.Asset)
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	return &Coin{
		Asset:  c.Asset.Clone(),
		Amount: c.Amount,
	}
}

// Validate ensures that the coin carries a valid asset type. It accepts
// zero amounts, so you may want to make other checks in your business
// logic
func (c Coin) Validate() error {
	if err := c.Asset.Validate(); err != nil {
		return errors.Wrap(errors.ErrCurrency, "invalid asset")
	}
	return nil
}

// Marshal serializes the coin using protobuf wire format.
func (c *Coin) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Bytes(1, c.Asset)
	w.Uint64(2, c.Amount)
	return w.Result()
}

// Unmarshal loads the coin from its protobuf wire format.
func (c *Coin) Unmarshal(raw []byte) error {
	*c = Coin{}
	r := weave.NewWireReader(raw)
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch r.Field() {
		case 1:
			b, err := r.Bytes()
			if err != nil {
				return err
			}
			c.Asset = weave.Address(b)
		case 2:
			if c.Amount, err = r.Uint64(); err != nil {
				return err
			}
		}
	}
}

func (c *Coin) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format that is a string in format
	// "<amount> <ticker>"
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		*c = parsed
		return err
	}

	// Fallback into the default unmarhaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Asset  weave.Address `json:"asset"`
		Ticker string        `json:"ticker"`
		Amount uint64        `json:"amount"`
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return err
	}
	c.Asset = coin.Asset
	if coin.Ticker != "" {
		c.Asset = AssetID(coin.Ticker)
	}
	c.Amount = coin.Amount
	return nil
}

// String provides a human readable representation of the coin. This function
// is meant mostly for testing and debugging. The asset type is displayed as
// a shortened hex identifier because tickers cannot be recovered from it.
func (c Coin) String() string {
	s := strconv.FormatUint(c.Amount, 10)
	if len(c.Asset) == 0 {
		return s
	}
	asset := c.Asset.String()
	if len(asset) > 8 {
		asset = asset[:8]
	}
	return s + " " + asset
}

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//   "<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	results := humanCoinFormatRx.FindStringSubmatch(h)
	if results == nil {
		return Coin{}, fmt.Errorf("invalid format")
	}
	amount, err := strconv.ParseUint(results[1], 10, 64)
	if err != nil {
		return Coin{}, fmt.Errorf("invalid amount: %s", err)
	}
	return NewCoin(amount, results[2]), nil
}

var humanCoinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
