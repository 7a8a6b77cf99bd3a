package preview

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/model"
	"pageforge/placeholder"
)

func TestThumbnailSize(t *testing.T) {
	w, h := ThumbnailSize(0.25)
	assert.Equal(t, 199, w)
	assert.Equal(t, 281, h)
	w, h = ThumbnailSize(1)
	assert.Equal(t, PageWidth, w)
	assert.Equal(t, PageHeight, h)
}

func TestRenderThumbnail(t *testing.T) {
	sn := &model.Snippet{Id: "s", HtmlContent: `<html><head><style>h1{color:red}</style></head><body><h1>{{seitentitel}}</h1>` +
		`<script>document.title='x'</script><p>{{seitenzahl}} {{datum}}</p></body></html>`}
	r := NewRenderer(nil).WithClock(func() time.Time { return time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC) })
	out, err := r.Thumbnail(sn, placeholder.Vars{placeholder.PageTitle: "Titel", placeholder.PageNumber: "7"}, "body{margin:0}", 0.5)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "<h1>Titel</h1>")
	assert.Contains(t, out, "<p>7 09.01.2024</p>")
	assert.Contains(t, out, "<style>/* Master */\nbody{margin:0}</style>")
	assert.Contains(t, out, "html{zoom:0.5;overflow:hidden!important}body{overflow:hidden!important;width:794px;margin:0}")
	assert.Less(t, strings.Index(out, "h1{color:red}"), strings.Index(out, "/* Master */"))
	assert.Less(t, strings.Index(out, "/* Master */"), strings.Index(out, "zoom:0.5"))
}

func TestRenderThumbnailFragment(t *testing.T) {
	out, err := RenderThumbnail(&model.Snippet{Id: "f", HtmlContent: "<p>{{collection}}</p>"}, placeholder.Vars{placeholder.Collection: "C"}, "", 0.176)
	require.NoError(t, err)
	assert.Contains(t, out, "<body><p>C</p></body>")
	assert.NotContains(t, out, "Master")
	assert.Contains(t, out, "zoom:0.176")
}

func TestHighlighted(t *testing.T) {
	r := NewRenderer(nil).WithImages(map[string]string{"logo": "data:x"})
	out, err := r.Highlighted(&model.Snippet{Id: "h", HtmlContent: `<p>{{kapitel}}</p><img src="pf://logo">`}, "", 1)
	require.NoError(t, err)
	assert.Contains(t, out, `data-placeholder="kapitel"`)
	assert.Contains(t, out, `src="data:x"`)
}
