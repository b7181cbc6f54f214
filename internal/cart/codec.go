package cart

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode serializes the cart's line items for persistence. The encoding is
// the item list itself, matching what the browser client stored originally.
func Encode(c Cart) ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "cart: encode")
	}
	return data, nil
}

// Decode rebuilds a cart from persisted bytes. Empty input yields an empty
// cart; malformed input returns an error so the caller can fall back.
func Decode(data []byte) (Cart, error) {
	if len(data) == 0 {
		return Cart{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return Cart{}, errors.Wrap(err, "cart: decode")
	}
	return Cart{Items: items}, nil
}
