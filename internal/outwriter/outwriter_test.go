package outwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/internal/contract"
)

func TestTruncateSubject(t *testing.T) {
	assert.Equal(t, "octocat", truncateSubject("octocat", 12))
	assert.Equal(t, "acme/very...", truncateSubject("acme/very-long-repository-name", 12))
	assert.Equal(t, "acm", truncateSubject("acme/api", 3))
}

func TestFmtFloat(t *testing.T) {
	assert.Equal(t, "26.4", fmtFloat(26.44))
	assert.Equal(t, "0.0", fmtFloat(0))
	assert.Equal(t, "-3.5", fmtFloat(-3.5))
}

func TestHeaderEmojiToggle(t *testing.T) {
	withEmoji := &contract.Config{UseEmojis: true}
	plain := &contract.Config{UseEmojis: false}

	assert.Equal(t, "🔄 Refresh", header("Refresh", "🔄", withEmoji))
	assert.Equal(t, "Refresh", header("Refresh", "🔄", plain))
	assert.Equal(t, "Refresh", header("Refresh", "", withEmoji))
}

func TestGradeLabelPlain(t *testing.T) {
	cfg := &contract.Config{UseColors: false}

	assert.Equal(t, "Elite", gradeLabel(92.5, cfg))
	assert.Equal(t, "Strong", gradeLabel(75.0, cfg))
	assert.Equal(t, "Average", gradeLabel(60.0, cfg))
	assert.Equal(t, "Lagging", gradeLabel(40.0, cfg))
}
