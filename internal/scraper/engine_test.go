package scraper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saspirant/notifier/internal/domain"
	"github.com/saspirant/notifier/internal/logger"
	"github.com/saspirant/notifier/internal/scraper"
	"github.com/saspirant/notifier/internal/transport"
)

type fakeFetcher struct {
	pages     map[string][]byte
	fetchErr  error
	downloads int
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	body, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("page not found")
	}
	return body, nil
}

func (f *fakeFetcher) Download(_ context.Context, fileURL string) ([]byte, error) {
	f.downloads++
	body, ok := f.pages[fileURL]
	if !ok {
		return nil, errors.New("download not found")
	}
	return body, nil
}

type fakeRenderer struct {
	html    string
	err     error
	renders int
}

func (r *fakeRenderer) Render(_ context.Context, _ string) (string, error) {
	r.renders++
	if r.err != nil {
		return "", r.err
	}
	return r.html, nil
}

type fakePDF struct {
	text string
	err  error
}

func (p *fakePDF) ExtractText(_ []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

const genericListingHTML = `<html><body>
  <a href="/a.pdf">Recruitment drive for Data Entry Operator posts</a>
  <a href="/a.pdf">Recruitment drive for Data Entry Operator posts</a>
  <a href="/b.pdf">Vacancy notice dated 01/01/2020 for Peon posts</a>
</body></html>`

func genericSource() *domain.Source {
	return &domain.Source{
		ID:   "src-1",
		URL:  "https://example.org/",
		Name: "Example Board",
	}
}

func TestEngine_Scrape_DeduplicatesWithinPass(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://example.org/": []byte(genericListingHTML),
	}}
	engine := scraper.NewEngine(fetcher, nil, nil, logger.NewNoOp())

	drafts, err := engine.Scrape(context.Background(), genericSource(), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 2, "identical pdf links collapse to one draft")
}

func TestEngine_Scrape_CutoffDropsStaleKeepsUndated(t *testing.T) {
	t.Parallel()

	const tableHTML = `<html><body><table>
	  <tr><td>15/02/2020</td><td><a href="/old.pdf">Recruitment of Stenographers 2020 notification</a></td></tr>
	  <tr><td>-</td><td><a href="/new.pdf">Recruitment of Junior Translators notification</a></td></tr>
	</table></body></html>`

	source := &domain.Source{
		ID:   "src-1",
		URL:  "https://upsc.gov.in/whats-new",
		Name: "UPSC",
	}
	fetcher := &fakeFetcher{pages: map[string][]byte{
		source.URL: []byte(tableHTML),
	}}
	engine := scraper.NewEngine(fetcher, nil, nil, logger.NewNoOp())

	cutoff := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	drafts, err := engine.Scrape(context.Background(), source, &cutoff)
	require.NoError(t, err)

	// The 15/02/2020 draft is stale; the undated draft always passes.
	require.Len(t, drafts, 1)
	assert.Contains(t, drafts[0].Title, "Junior Translators")
}

func TestEngine_Scrape_GenericFamilyIgnoresCutoff(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://example.org/": []byte(genericListingHTML),
	}}
	engine := scraper.NewEngine(fetcher, nil, nil, logger.NewNoOp())

	cutoff := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	drafts, err := engine.Scrape(context.Background(), genericSource(), &cutoff)
	require.NoError(t, err)

	// The anchor scan keeps no history; even the 01/01/2020 draft survives
	// the cutoff and deduplication is carried by the seen key alone.
	require.Len(t, drafts, 2)
}

func TestEngine_Scrape_RenderedFallbackWhenStaticEmpty(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://example.org/": []byte("<html><body><p>loading...</p></body></html>"),
	}}
	renderer := &fakeRenderer{html: genericListingHTML}
	engine := scraper.NewEngine(fetcher, renderer, nil, logger.NewNoOp())

	drafts, err := engine.Scrape(context.Background(), genericSource(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.renders)
	require.Len(t, drafts, 2)
}

func TestEngine_Scrape_ErrorWhenBothPathsFail(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{fetchErr: errors.New("connection refused")}
	renderer := &fakeRenderer{err: errors.New("chrome not found")}
	engine := scraper.NewEngine(fetcher, renderer, nil, logger.NewNoOp())

	_, err := engine.Scrape(context.Background(), genericSource(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEngine_Scrape_EmptyBoardIsNotAnError(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://example.org/": []byte("<html><body><p>no notices today</p></body></html>"),
	}}
	engine := scraper.NewEngine(fetcher, nil, nil, logger.NewNoOp())

	drafts, err := engine.Scrape(context.Background(), genericSource(), nil)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestEngine_Scrape_PDFEnrichmentOverridesFields(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://example.org/":      []byte(genericListingHTML),
		"https://example.org/a.pdf": []byte("%PDF fake"),
		"https://example.org/b.pdf": []byte("%PDF fake"),
	}}
	pdf := &fakePDF{text: "Age limit 21 to 30 years. Qualification: Graduate in Commerce. Last date to apply: 20/12/2025."}
	engine := scraper.NewEngine(fetcher, nil, pdf, logger.NewNoOp())

	drafts, err := engine.Scrape(context.Background(), genericSource(), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	first := drafts[0]
	assert.Equal(t, "21 to 30 years", first.AgeLimit)
	assert.Contains(t, first.Qualification, "Graduate in Commerce")
	require.NotNil(t, first.LastDateToApply)
	assert.Equal(t, "2025-12-20", first.LastDateToApply.Format("2006-01-02"))
}

func TestEngine_Scrape_ScannedPDFSkipsDraft(t *testing.T) {
	t.Parallel()

	const html = `<html><body>
	  <a href="/a.pdf">Recruitment drive for Data Entry Operator posts</a>
	  <a href="/page.html">Vacancy notice for Junior Assistant posts</a>
	</body></html>`

	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://example.org/":      []byte(html),
		"https://example.org/a.pdf": []byte("%PDF fake"),
	}}
	pdf := &fakePDF{err: transport.ErrNoText}
	engine := scraper.NewEngine(fetcher, nil, pdf, logger.NewNoOp())

	drafts, err := engine.Scrape(context.Background(), genericSource(), nil)
	require.NoError(t, err)

	// A scanned PDF carries no extractable data; its fragment is dropped for
	// manual review while drafts without a PDF pass through untouched.
	require.Len(t, drafts, 1)
	assert.Contains(t, drafts[0].Title, "Junior Assistant")
}

func TestEngine_Scrape_PDFDownloadFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string][]byte{
		"https://example.org/": []byte(genericListingHTML),
	}}
	pdf := &fakePDF{text: "irrelevant"}
	engine := scraper.NewEngine(fetcher, nil, pdf, logger.NewNoOp())

	drafts, err := engine.Scrape(context.Background(), genericSource(), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 2, "download failures keep the page fields")
}
