package kakao

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		ok     bool
	}{
		{"sdk with capability", http.StatusOK, "window.kakao=window.kakao||{};kakao.maps={load:function(){}}", true},
		{"sdk without maps", http.StatusOK, "window.kakao={}", false},
		{"unauthorized key", http.StatusUnauthorized, "kakao.maps", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "k1", r.URL.Query().Get("appkey"))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			url := srv.URL + "/v2/maps/sdk.js?appkey=k1&autoload=false"
			rt, ok := NewProbe(srv.Client(), url)(context.Background())
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				require.NotNil(t, rt)
				assert.Equal(t, url, rt.SDKURL)
				assert.False(t, rt.CheckedAt.IsZero())
			} else {
				assert.Nil(t, rt)
			}
		})
	}
}

func TestProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rt, ok := NewProbe(nil, url)(context.Background())
	assert.False(t, ok)
	assert.Nil(t, rt)
}
