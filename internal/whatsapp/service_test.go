package whatsapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneToJID(t *testing.T) {
	assert.Equal(t, "5511999990000@s.whatsapp.net", PhoneToJID("5511999990000"))
	assert.Equal(t, "5511999990000@s.whatsapp.net", PhoneToJID("+55 (11) 99999-0000"))
	assert.Equal(t, "5511999990000@s.whatsapp.net", PhoneToJID("5511999990000@s.whatsapp.net"))
}

func TestNilServiceAccessors(t *testing.T) {
	var s *Service
	assert.False(t, s.Paired())
	assert.Empty(t, s.QRCode())
	assert.Error(t, s.SendText(context.Background(), "5511999990000", "oi"))
}
