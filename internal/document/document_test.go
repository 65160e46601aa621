package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

func TestParse_Classifies(t *testing.T) {
	text := "# Weekly Plan\n\n## Day 1 - Monday\n### Breakfast\n- **Oats** porridge 40 g\n* _Warm_ water 250 ml\n• Ghee 5 g\nEat slowly.\n\n\n---\n#hashtag line\n"
	got := Parse(text)
	want := []Block{
		{KindHeading1, "Weekly Plan"},
		{KindSpacer, ""},
		{KindHeading2, "Day 1 - Monday"},
		{KindHeading2, "Breakfast"},
		{KindBullet, "Oats porridge 40 g"},
		{KindBullet, "Warm water 250 ml"},
		{KindBullet, "Ghee 5 g"},
		{KindParagraph, "Eat slowly."},
		{KindSpacer, ""},
		{KindParagraph, "#hashtag line"},
	}
	assert.Equal(t, want, got)
}

func TestParse_HeadingBulletParagraphRoundTrip(t *testing.T) {
	got := Parse("# Title\n- **Moong dal** 150 g\nA plain paragraph")
	require.Len(t, got, 3)
	assert.Equal(t, KindHeading1, got[0].Kind)
	assert.Equal(t, KindBullet, got[1].Kind)
	assert.Equal(t, "Moong dal 150 g", got[1].Text)
	assert.Equal(t, KindParagraph, got[2].Kind)
}

func TestParse_EmptyAndWindowsNewlines(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n  \n"))
	got := Parse("# A\r\n- b\r\n")
	assert.Equal(t, []Block{{KindHeading1, "A"}, {KindBullet, "b"}}, got)
}

func TestStripEmphasis(t *testing.T) {
	cases := map[string]string{
		"**bold** text":         "bold text",
		"__bold__ text":         "bold text",
		"an *italic* word":      "an italic word",
		"an _italic_ word":      "an italic word",
		"keep snake_case_names": "keep snake_case_names",
		"5 * 3 = 15":            "5 * 3 = 15",
		"**unclosed":            "unclosed",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripEmphasis(in), in)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "h1", KindHeading1.String())
	assert.Equal(t, "bullet", KindBullet.String())
	assert.Equal(t, "paragraph", KindParagraph.String())
}

func newTestRenderer(dir string) *Renderer {
	r := NewRenderer(config.DocumentConfig{FontDir: dir})
	r.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func assertStandalonePDF(t *testing.T, b []byte) {
	t.Helper()
	require.True(t, bytes.HasPrefix(b, []byte("%PDF-")), "missing PDF header")
	assert.True(t, bytes.HasSuffix(bytes.TrimSpace(b), []byte("%%EOF")), "missing EOF marker")
}

func TestRender_StandalonePDF(t *testing.T) {
	doc, err := newTestRenderer(t.TempDir()).Render(domain.GeneratedPlan{
		RawText:       "# Plan\n## Day 1\n- Rice 100 g\nParagraph",
		GenerationDay: "Monday",
	})
	require.NoError(t, err)
	assert.Equal(t, ContentTypePDF, doc.ContentType)
	assert.Equal(t, "ayurvedic-diet-plan-monday.pdf", doc.Filename)
	assertStandalonePDF(t, doc.Content)
}

func TestRender_BlocksInOrder(t *testing.T) {
	r := newTestRenderer("")
	r.compress = false

	doc, err := r.Render(domain.GeneratedPlan{RawText: "# Plan Title\n- **Ghee** 5 g\nDrink warm water"})
	require.NoError(t, err)

	content := string(doc.Content)
	h := strings.Index(content, "Plan Title")
	b := strings.Index(content, "Ghee 5 g")
	p := strings.Index(content, "Drink warm water")
	require.True(t, h >= 0 && b >= 0 && p >= 0, "all three blocks rendered")
	assert.Less(t, h, b)
	assert.Less(t, b, p)
	assert.NotContains(t, content, "**Ghee**")
}

func TestRender_ToleratesAnyCharacters(t *testing.T) {
	text := "# योजना 🥗\n- 蔬菜 100 g — ₹50\n- Café au lait 200 ml, 38°C\n" + strings.Repeat("long line ", 2000)
	doc, err := newTestRenderer("/does/not/exist").Render(domain.GeneratedPlan{RawText: text})
	require.NoError(t, err)
	assertStandalonePDF(t, doc.Content)
}

func TestRender_EmptyPlanStillProducesDocument(t *testing.T) {
	doc, err := newTestRenderer("").Render(domain.GeneratedPlan{})
	require.NoError(t, err)
	assert.Equal(t, "ayurvedic-diet-plan.pdf", doc.Filename)
	assertStandalonePDF(t, doc.Content)
}

func TestSelectFont_MissingFilesFallBack(t *testing.T) {
	r := newTestRenderer(t.TempDir())
	assert.False(t, exists(r.fontDir+"/"+regularFont))
	doc, err := r.Render(domain.GeneratedPlan{RawText: "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Content)
}

func TestToWindows1252(t *testing.T) {
	out := ToWindows1252("Café 38°C — ₹ 🥗\t!")
	assert.Equal(t, "Caf\xe9 38\xb0C \x97 ? ? !", out)
}

func TestToBMP(t *testing.T) {
	assert.Equal(t, "योजना ? x", ToBMP("योजना 🥗\tx"))
}

func TestHTML_RendersMarkdown(t *testing.T) {
	out, err := HTML(domain.GeneratedPlan{
		RawText:       "# Plan\n\n## Breakfast\n\n- **Oats** 40 g\n- Milk 200 ml\n\n<script>alert(1)</script>",
		GenerationDay: "Tuesday",
	})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Plan", doc.Find(".plan h1").First().Text())
	assert.Equal(t, "Breakfast", doc.Find(".plan h2").First().Text())
	assert.Equal(t, 2, doc.Find(".plan li").Length())
	assert.Equal(t, "Oats", doc.Find(".plan li strong").First().Text())
	assert.Zero(t, doc.Find("script").Length(), "raw HTML must not pass through")
	assert.Contains(t, doc.Find("body").Text(), "Tuesday")
}

func TestPlainText(t *testing.T) {
	out := PlainText(domain.GeneratedPlan{RawText: "# Plan\n- **Rice** 100 g", GenerationDay: "Friday"})
	assert.Contains(t, out, "generated on Friday")
	assert.Contains(t, out, "  - Rice 100 g")
	assert.NotContains(t, out, "**")
}
