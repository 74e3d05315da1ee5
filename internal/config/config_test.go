package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-minic/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := config.Default()
	assert.True(t, opts.SimplifyEnabled())
	assert.Equal(t, 4, opts.NREGS)
	assert.Equal(t, 1000, opts.Deep)
}

func TestParseFillsDefaultsForOmittedFields(t *testing.T) {
	opts, err := config.Parse([]byte(`nregs: 2`))
	require.NoError(t, err)
	assert.Equal(t, 2, opts.NREGS)
	assert.Equal(t, 1000, opts.Deep)
	assert.True(t, opts.SimplifyEnabled())
}

func TestParseRespectsExplicitFalseSimplify(t *testing.T) {
	opts, err := config.Parse([]byte(`simplify: false`))
	require.NoError(t, err)
	assert.False(t, opts.SimplifyEnabled())
}

func TestParseRejectsNegativeNREGS(t *testing.T) {
	_, err := config.Parse([]byte(`nregs: -1`))
	assert.Error(t, err)
}

func TestParseRejectsNegativeDeep(t *testing.T) {
	_, err := config.Parse([]byte(`deep: -1`))
	assert.Error(t, err)
}

func TestParseRejectsNREGSAboveThePhysicalRegisterCount(t *testing.T) {
	_, err := config.Parse([]byte(`nregs: 6`))
	assert.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load("/nonexistent/options.yaml")
	assert.Error(t, err)
}
