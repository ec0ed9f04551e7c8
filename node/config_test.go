package node

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issuerSeed = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	issuer     = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
)

func testViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.Set("issuer_account", issuer)
	v.Set("issuer_seed", issuerSeed)
	v.Set("db_backend", "memdb")
	v.Set("session_secret", "0123456789abcdef0123")
	return v
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig(testViper())
	require.Nil(t, err)

	assert.Equal(t, ":3000", c.Addr)
	assert.Equal(t, "BEAR", c.TokenCurrency)
	assert.Equal(t, 7*24*time.Hour, c.SessionTTL)
	assert.Equal(t, uint32(20), c.LastLedgerOffset)
	assert.Equal(t, 50, c.OrderBookLimit)
	assert.Equal(t, "4245415200000000000000000000000000000000", c.Asset().Currency)
	assert.Equal(t, issuer, c.Asset().Issuer)
}

func TestNewConfigMissingKeys(t *testing.T) {
	cases := map[string]interface{}{
		"issuer_account": "",
		"issuer_seed":    "",
		"session_secret": "short",
		"db_backend":     "",
		"trust_limit":    "-5",
	}
	for key, val := range cases {
		v := testViper()
		v.Set(key, val)
		_, err := NewConfig(v)
		assert.NotNil(t, err, key)
	}
}

func TestNewConfigSeedMismatch(t *testing.T) {
	v := testViper()
	v.Set("issuer_account", "rrrrrrrrrrrrrrrrrrrrBZbvji")
	_, err := NewConfig(v)
	assert.NotNil(t, err)
}

func TestNewConfigDBPath(t *testing.T) {
	v := testViper()
	v.Set("db_backend", "boltdb")
	_, err := NewConfig(v)
	assert.NotNil(t, err)

	v.Set("db_path", "/tmp/carbonbear.db")
	_, err = NewConfig(v)
	assert.Nil(t, err)
}
