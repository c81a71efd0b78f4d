package watchlist

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// largeWatchlistSize is roughly the size of the biggest watchlists seen in
// the wild.
const largeWatchlistSize = 50_000

// newLargeTitles returns titles spread over a few namespaces, every tenth of
// them a documentation subpage.
func newLargeTitles(n int) (titles []string) {
	prefixes := []string{"", "User:", "Template:", "Help:", "Category:"}
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("%sPage %d", prefixes[i%len(prefixes)], i)
		if i%10 == 0 {
			title += "/doc"
		}

		titles = append(titles, title)
	}

	return titles
}

func TestEngine_largeWatchlist(t *testing.T) {
	start := getRSS(t)
	t.Logf("RSS before building the page - %d kB", start/1024)

	titles := newLargeTitles(largeWatchlistSize)
	page := newTestEditPage(titles...)
	rawPage := newTestRawPage(titles...)

	afterLoad := getRSS(t)
	t.Logf("RSS after building the page - %d kB (%d kB diff)", afterLoad/1024, (int64(afterLoad)-int64(start))/1024)

	startMatch := time.Now()
	res, err := NewEngine(page.host()).RemoveEndsWith([]string{"/doc"}, &Options{})
	require.NoError(t, err)
	assert.Len(t, res.Flagged, largeWatchlistSize/10)

	rawRes, err := NewEngine(rawPage.host()).RemoveByNamespace("Template", &Options{})
	require.NoError(t, err)
	assert.Len(t, rawRes.Flagged, largeWatchlistSize/5)
	assert.Equal(t, largeWatchlistSize, strings.Count(rawPage.raw, "\n")+1)
	t.Logf("Elapsed on matching: %v", time.Since(startMatch))

	afterMatch := getRSS(t)
	t.Logf("RSS after matching - %d kB (%d kB diff)", afterMatch/1024, (int64(afterMatch)-int64(afterLoad))/1024)
}

func BenchmarkEngine_RemoveStartsWith(b *testing.B) {
	titles := newLargeTitles(largeWatchlistSize)
	page := newTestEditPage(titles...)
	e := NewEngine(page.host())
	opts := &Options{Exceptions: []string{"/doc"}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := e.RemoveStartsWith([]string{"Template:", "Help:"}, opts)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func getRSS(t testing.TB) uint64 {
	t.Helper()

	proc, err := process.NewProcess(int32(os.Getpid()))
	require.NoError(t, err)

	minfo, err := proc.MemoryInfo()
	require.NoError(t, err)

	return minfo.RSS
}
