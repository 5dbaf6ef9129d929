package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<!DOCTYPE html>
<html>
<body>
<nav>Site navigation</nav>
<main>
<h1>Senior Product Manager</h1>
<article>
<h2>Requirements</h2>
<ul>
<li>5 years product experience</li>
<li>Fluent German</li>
</ul>
</article>
</main>
<form class="application-form">First name: Last name:</form>
<footer>Imprint and legal</footer>
</body>
</html>`

func TestJobPosting_ExtractsMainContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	f := NewFetcher()
	text, err := f.JobPosting(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Product Manager")
	assert.Contains(t, text, "Fluent German")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "Imprint and legal")
	assert.NotContains(t, text, "First name")
}

func TestJobPosting_InvalidURL(t *testing.T) {
	f := NewFetcher()

	_, err := f.JobPosting(context.Background(), "not a url")
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "invalid URL")
}

func TestJobPosting_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher()
	_, err := f.JobPosting(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestDetectBoard(t *testing.T) {
	tests := []struct {
		url      string
		expected Board
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", BoardGreenhouse},
		{"https://jobs.lever.co/acme/123", BoardLever},
		{"https://acme.wd1.myworkdayjobs.com/careers/job/123", BoardWorkday},
		{"https://careers.example.com/jobs/123", BoardGeneric},
		{"://broken", BoardGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectBoard(tt.url))
		})
	}
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Loose paragraph with the posting text.</p></body></html>`
	text, err := extractMainText(html, BoardGeneric)
	require.NoError(t, err)
	assert.Contains(t, text, "Loose paragraph")
}

func TestTooShort(t *testing.T) {
	assert.True(t, tooShort("tiny"))
	assert.True(t, tooShort(""))

	long := make([]byte, minStaticContent)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, tooShort(string(long)))
}
