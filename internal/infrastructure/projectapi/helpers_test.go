package projectapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

func replaceAll(s, old, replacement string) string {
	return strings.ReplaceAll(s, old, replacement)
}

// newPagedCompletions serves three pages of one completion each and records
// the requested page numbers.
func newPagedCompletions(t *testing.T, pages *[]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("page")
		*pages = append(*pages, p)
		fmt.Fprintf(w, `{"count":3,"num_pages":3,"results":[{"user_id":%s,"stage":"s"}]}`, p)
	}))
	t.Cleanup(srv.Close)
	return srv
}
