package slack

// Export internal functions for testing
var (
	LooksLikeChannelID   = looksLikeChannelID
	NormalizeChannelName = normalizeChannelName
)
