package common

import (
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(int64(rand.Intn(1023)))
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake id usable as a database primary key.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

func UUID() string {
	return snowflakeNode.Generate().String()
}

// GetSecretSalt reads the shared secret salt, falling back to a fixed value.
func GetSecretSalt() string {
	if v := os.Getenv("PEDEAI_SECRET_SALT"); v != "" {
		return v
	}
	return "pedeai-secret-salt"
}

// Salutation returns the greeting for the given time of day, used by the
// WhatsApp sale message template.
func Salutation(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour < 12:
		return "Bom dia"
	case hour < 18:
		return "Boa tarde"
	default:
		return "Boa noite"
	}
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest, matching the storefront display convention for product names.
func TitleCase(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		r := []rune(w)
		head := strings.ToUpper(string(r[0]))
		tail := strings.ToLower(string(r[1:]))
		words[i] = head + tail
	}
	return strings.Join(words, " ")
}

func FileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
