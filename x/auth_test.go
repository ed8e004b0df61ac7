package x

import (
	"context"
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
)

func TestChainAuth(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	c := weavetest.NewCondition()

	ctx1 := &weavetest.CtxAuth{Key: "foo"}
	ctx2 := &weavetest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          weave.Context
		auth         Authenticator
		wantInCtx    weave.Condition
		wantNotInCtx weave.Condition
		wantAll      []weave.Condition
	}{
		"empty chain": {
			ctx:          context.Background(),
			auth:         ChainAuth(),
			wantNotInCtx: a,
		},
		"single signer": {
			ctx:          context.Background(),
			auth:         ChainAuth(&weavetest.Auth{Signer: a}),
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []weave.Condition{a},
		},
		"conditions keep chain order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&weavetest.Auth{Signer: b},
				&weavetest.Auth{Signer: a}),
			wantInCtx:    a,
			wantNotInCtx: c,
			wantAll:      []weave.Condition{b, a},
		},
		"context authenticators are combined": {
			ctx:          ctx1.SetConditions(ctx2.SetConditions(context.Background(), c), a),
			auth:         ChainAuth(ctx1, ctx2),
			wantInCtx:    c,
			wantNotInCtx: b,
			wantAll:      []weave.Condition{a, c},
		},
		"only chained authenticators are asked": {
			ctx:          ctx2.SetConditions(context.Background(), a),
			auth:         ChainAuth(ctx1),
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))
		})
	}
}
