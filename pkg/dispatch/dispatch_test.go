package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncAdapter(t *testing.T) {
	var got string
	d := Func(func(ctx context.Context, rawURL string) error {
		got = rawURL
		return nil
	})

	require.NoError(t, d.OpenURL(context.Background(), "taskgate://partner-ready?session_id=abc123"))
	assert.Equal(t, "taskgate://partner-ready?session_id=abc123", got)
}

func TestFuncAdapterError(t *testing.T) {
	sentinel := errors.New("no handler installed")
	d := Func(func(ctx context.Context, rawURL string) error {
		return sentinel
	})

	assert.ErrorIs(t, d.OpenURL(context.Background(), "x://y"), sentinel)
}

func TestExecOpenerCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{goos: "darwin", want: "open"},
		{goos: "windows", want: "rundll32"},
		{goos: "linux", want: "xdg-open"},
		{goos: "freebsd", want: "xdg-open"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			e := &Exec{goos: tt.goos}
			name, args := e.openerCommand("https://cb.example/done")
			assert.Equal(t, tt.want, name)
			assert.Contains(t, args[len(args)-1], "https://cb.example/done")
		})
	}
}

func TestHTTPDelivers(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewHTTP()
	err := d.OpenURL(context.Background(), srv.URL+"/callback?status=open&provider_id=acme")
	require.NoError(t, err)

	assert.Equal(t, "/callback", gotPath)
	assert.Equal(t, "status=open&provider_id=acme", gotQuery)
}

func TestHTTPRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewHTTP()
	err := d.OpenURL(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}
