package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

func sampleTree() *domain.Tree {
	ch0 := &domain.ChannelNode{Path: "/Trial1/Synchronous Data/Ch0", Trial: "/Trial1/Synchronous Data", AutoSelected: true}
	ch1 := &domain.ChannelNode{Path: "/Trial1/Synchronous Data/Ch1", Trial: "/Trial1/Synchronous Data"}
	return &domain.Tree{
		Trials: []*domain.TrialNode{
			{Path: "/Trial1/Synchronous Data", Channels: []*domain.ChannelNode{ch0, ch1}},
			{Path: "/Trial2/Synchronous Data", Channels: []*domain.ChannelNode{}},
		},
		Selected: ch0,
	}
}

func TestTreeMarkdown(t *testing.T) {
	md := TreeMarkdown("/data/rec.h5", sampleTree())
	assert.Contains(t, md, "# rec.h5")
	assert.Contains(t, md, "2 trials, 2 channels")
	assert.Contains(t, md, "## Trial1")
	assert.Contains(t, md, "- **`Ch0`** (selected)")
	assert.Contains(t, md, "- `Ch1`")
	assert.Contains(t, md, "## Trial2\n\n_no channels_")
}

func TestTreeMarkdown_Empty(t *testing.T) {
	md := TreeMarkdown("empty.h5", domain.NewTree())
	assert.Contains(t, md, "No trials found")
}

func TestTreeText(t *testing.T) {
	want := "/Trial1/Synchronous Data\n" +
		"  * /Trial1/Synchronous Data/Ch0\n" +
		"    /Trial1/Synchronous Data/Ch1\n" +
		"/Trial2/Synchronous Data\n"
	assert.Equal(t, want, TreeText(sampleTree()))
	assert.Empty(t, TreeText(nil))
}

func TestRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	require.NoError(t, err)
	out, err := render(TreeMarkdown("rec.h5", sampleTree()))
	require.NoError(t, err)
	assert.Contains(t, out, "Ch1")
}

func TestBannerAndStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")

	buf.Reset()
	Status(&buf, false, "open %s failed", "x.h5")
	assert.Contains(t, buf.String(), "open x.h5 failed")
}
