package tenancy

import "context"

type ctxKey string

const merchantKey ctxKey = "leadline.merchant_id"

// WithMerchantID stores the merchant id in context.
func WithMerchantID(ctx context.Context, merchantID string) context.Context {
	return context.WithValue(ctx, merchantKey, merchantID)
}

// MerchantIDFromContext extracts the merchant id if present.
func MerchantIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(merchantKey)
	if val == nil {
		return "", false
	}
	merchantID, ok := val.(string)
	return merchantID, ok && merchantID != ""
}
