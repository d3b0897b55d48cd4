package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixCurve   = "curve"
	PrefixCursor  = "cursor"
	PrefixTrigger = "trigger"
	PrefixAsset   = "asset"
	PrefixClient  = "client"
	PrefixOp      = "op"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewCurveID() string   { return New(PrefixCurve) }
func NewCursorID() string  { return New(PrefixCursor) }
func NewTriggerID() string { return New(PrefixTrigger) }
func NewAssetID() string   { return New(PrefixAsset) }
func NewClientID() string  { return New(PrefixClient) }
func NewOpID() string      { return New(PrefixOp) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
