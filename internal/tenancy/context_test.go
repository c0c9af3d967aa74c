package tenancy

import (
	"context"
	"testing"
)

func TestMerchantIDRoundTrip(t *testing.T) {
	ctx := WithMerchantID(context.Background(), "merchant-42")

	got, ok := MerchantIDFromContext(ctx)
	if !ok || got != "merchant-42" {
		t.Errorf("MerchantIDFromContext = %q, %v; want merchant-42, true", got, ok)
	}
}

func TestMerchantIDMissing(t *testing.T) {
	if _, ok := MerchantIDFromContext(context.Background()); ok {
		t.Error("expected missing merchant id")
	}
}

func TestMerchantIDEmpty(t *testing.T) {
	ctx := WithMerchantID(context.Background(), "")
	if _, ok := MerchantIDFromContext(ctx); ok {
		t.Error("empty merchant id should not be reported present")
	}
}
