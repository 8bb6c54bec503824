package domain_test

import (
	"testing"

	"github.com/avstream/media_access_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAccessModeFromFlags(t *testing.T) {
	assert.Equal(t, domain.AccessModeNone, domain.AccessModeFromFlags(false, false))
	assert.Equal(t, domain.AccessModeStreamingOnly, domain.AccessModeFromFlags(true, false))
	assert.Equal(t, domain.AccessModeDownloadOnly, domain.AccessModeFromFlags(false, true))
	assert.Equal(t, domain.AccessModeStreamingAndDownload, domain.AccessModeFromFlags(true, true))
}

func TestAccessMode_FlagsRoundTrip(t *testing.T) {
	// The flag pair -> mode -> flag pair mapping must be total and lossless.
	for _, streaming := range []bool{false, true} {
		for _, download := range []bool{false, true} {
			mode := domain.AccessModeFromFlags(streaming, download)
			assert.True(t, mode.IsValid())
			gotStreaming, gotDownload := mode.Flags()
			assert.Equal(t, streaming, gotStreaming)
			assert.Equal(t, download, gotDownload)
		}
	}
}

func TestAccessMode_UnknownGrantsNothing(t *testing.T) {
	streaming, download := domain.AccessMode("garbage").Flags()
	assert.False(t, streaming)
	assert.False(t, download)
	assert.False(t, domain.AccessMode("garbage").IsValid())
}
