package runtime

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWiresHTTPAndLog(t *testing.T) {
	e := New(false)
	assert.NotNil(t, e.HTTP.client)
	assert.NotNil(t, e.Log.logger)
}

func TestTimeEffectsNowAndUnixMillisAgree(t *testing.T) {
	var te TimeEffects
	now := te.Now()
	ms := te.UnixMillis()
	assert.InDelta(t, now.UnixMilli(), ms, 1000)
}

func TestRandomEffectsIntRangeStaysInBounds(t *testing.T) {
	var re RandomEffects
	for i := 0; i < 50; i++ {
		v := re.IntRange(10, 20)
		assert.GreaterOrEqual(t, v, 10)
		assert.Less(t, v, 20)
	}
}

func TestRandomEffectsUUIDV4ProducesDistinctValues(t *testing.T) {
	var re RandomEffects
	a := re.UUIDV4()
	b := re.UUIDV4()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestRandomEffectsBytesReturnsRequestedLength(t *testing.T) {
	var re RandomEffects
	b, err := re.Bytes(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)
}

func TestFSEffectsWriteReadRoundTrip(t *testing.T) {
	var fs FSEffects
	path := t.TempDir() + "/out.txt"
	require.NoError(t, fs.WriteFile(path, []byte("hello")))
	assert.True(t, fs.Exists(path))
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFSEffectsExistsFalseForMissingFile(t *testing.T) {
	var fs FSEffects
	assert.False(t, fs.Exists(t.TempDir()+"/nope.txt"))
}

func TestCryptoEffectsHashSha256IsDeterministic(t *testing.T) {
	var c CryptoEffects
	assert.Equal(t, c.HashSha256([]byte("abc")), c.HashSha256([]byte("abc")))
	assert.NotEqual(t, c.HashSha256([]byte("abc")), c.HashSha256([]byte("abd")))
}

func TestCryptoEffectsHmacSha256VariesWithKey(t *testing.T) {
	var c CryptoEffects
	a := c.HmacSha256([]byte("key1"), []byte("msg"))
	b := c.HmacSha256([]byte("key2"), []byte("msg"))
	assert.NotEqual(t, a, b)
}

func TestEnvEffectsGetEnvReportsPresence(t *testing.T) {
	t.Setenv("MKC_RUNTIME_TEST_VAR", "1")
	var e EnvEffects
	v, ok := e.GetEnv("MKC_RUNTIME_TEST_VAR")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = e.GetEnv("MKC_RUNTIME_TEST_VAR_ABSENT")
	assert.False(t, ok)
}

func TestSysEffectsGetPidMatchesOSGetpid(t *testing.T) {
	var s SysEffects
	assert.Equal(t, os.Getpid(), s.GetPid())
}
