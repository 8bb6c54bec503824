package domain

// AccessMode describes which delivery methods an access token grants.
// It is the canonical representation of the (allowStreaming, allowDownload)
// flag pair so call sites don't combine the booleans ad hoc.
type AccessMode string

const (
	AccessModeNone                 AccessMode = "none"
	AccessModeStreamingOnly        AccessMode = "streaming_only"
	AccessModeDownloadOnly         AccessMode = "download_only"
	AccessModeStreamingAndDownload AccessMode = "streaming_and_download"
)

// AccessModeFromFlags maps a flag pair to its AccessMode. The mapping is
// total: every combination of the two booleans has a mode.
func AccessModeFromFlags(allowStreaming, allowDownload bool) AccessMode {
	switch {
	case allowStreaming && allowDownload:
		return AccessModeStreamingAndDownload
	case allowStreaming:
		return AccessModeStreamingOnly
	case allowDownload:
		return AccessModeDownloadOnly
	default:
		return AccessModeNone
	}
}

// Flags returns the (allowStreaming, allowDownload) pair for the mode.
// Unrecognised modes grant nothing.
func (m AccessMode) Flags() (allowStreaming, allowDownload bool) {
	switch m {
	case AccessModeStreamingAndDownload:
		return true, true
	case AccessModeStreamingOnly:
		return true, false
	case AccessModeDownloadOnly:
		return false, true
	default:
		return false, false
	}
}

// IsValid reports whether m is one of the known access modes.
func (m AccessMode) IsValid() bool {
	switch m {
	case AccessModeNone, AccessModeStreamingOnly, AccessModeDownloadOnly, AccessModeStreamingAndDownload:
		return true
	}
	return false
}
