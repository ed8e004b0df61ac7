package escrow

import (
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
)

func newEscrow(t testing.TB) *Escrow {
	t.Helper()
	sender := weavetest.NewCondition().Address()
	hash := identifierHash("bob@example.com")
	capability, err := DeriveCustody(sender, hash)
	assert.Nil(t, err)
	return &Escrow{
		Sender:        sender,
		RecipientHash: hash,
		Asset:         fym,
		Custody:       capability.Address(),
		Amount:        1000,
		CreatedAt:     1560000000,
		ExpiresAt:     1560000000 + 3600,
		Status:        StatusActive,
		Nonce:         capability.Nonce,
	}
}

func TestEscrowSerialization(t *testing.T) {
	active := newEscrow(t)

	claimed := active.Copy().(*Escrow)
	claimed.Status = StatusClaimed
	claimed.Recipient = weavetest.NewCondition().Address()

	for name, e := range map[string]*Escrow{"active": active, "claimed": claimed} {
		t.Run(name, func(t *testing.T) {
			raw, err := e.Marshal()
			assert.Nil(t, err)
			assert.Equal(t, 1+recordSize, len(raw))
			assert.Equal(t, byte(schemaVersion), raw[0])

			var got Escrow
			assert.Nil(t, got.Unmarshal(raw))
			assert.Equal(t, e, &got)
		})
	}
}

func TestEscrowUnmarshalErrors(t *testing.T) {
	raw, err := newEscrow(t).Marshal()
	assert.Nil(t, err)

	badVersion := append([]byte{}, raw...)
	badVersion[0] = 7

	badFlag := append([]byte{}, raw...)
	badFlag[1+weave.AddressLength+HashLength] = 2

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"empty":            {raw: nil, wantErr: errors.ErrSchema},
		"unknown version":  {raw: badVersion, wantErr: errors.ErrSchema},
		"truncated":        {raw: raw[:len(raw)-1], wantErr: errors.ErrModel},
		"trailing garbage": {raw: append(append([]byte{}, raw...), 0), wantErr: errors.ErrModel},
		"presence flag":    {raw: badFlag, wantErr: errors.ErrModel},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var e Escrow
			assert.IsErr(t, tc.wantErr, e.Unmarshal(tc.raw))
		})
	}
}

func TestEscrowValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Escrow)
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Escrow) {},
		},
		"zero amount": {
			mutate:  func(e *Escrow) { e.Amount = 0 },
			wantErr: ErrInvalidAmount,
		},
		"expires at creation": {
			mutate:  func(e *Escrow) { e.ExpiresAt = e.CreatedAt },
			wantErr: ErrInvalidExpiration,
		},
		"too long": {
			mutate:  func(e *Escrow) { e.ExpiresAt = e.CreatedAt + MaxEscrowDuration + 1 },
			wantErr: ErrExpirationTooLong,
		},
		"exactly max duration": {
			mutate: func(e *Escrow) { e.ExpiresAt = e.CreatedAt + MaxEscrowDuration },
		},
		"short hash": {
			mutate:  func(e *Escrow) { e.RecipientHash = e.RecipientHash[:10] },
			wantErr: errors.ErrModel,
		},
		"claimed without recipient": {
			mutate:  func(e *Escrow) { e.Status = StatusClaimed },
			wantErr: errors.ErrModel,
		},
		"unknown status": {
			mutate:  func(e *Escrow) { e.Status = 9 },
			wantErr: errors.ErrModel,
		},
		"invalid custody": {
			mutate:  func(e *Escrow) { e.Custody = nil },
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEscrow(t)
			tc.mutate(e)
			assert.IsErr(t, tc.wantErr, e.Validate())
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "claimed", StatusClaimed.String())
	assert.Equal(t, "expired", StatusExpired.String())
	assert.Equal(t, false, StatusActive.Terminal())
	assert.Equal(t, true, StatusClaimed.Terminal())
	assert.Equal(t, true, StatusExpired.Terminal())
}
