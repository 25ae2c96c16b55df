package ranking

import (
	"context"
	"errors"
	"testing"

	"crew-map/internal/districts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	body []byte
	err  error
	fn   string
}

func (f *fakeInvoker) Invoke(ctx context.Context, fn string) ([]byte, error) {
	f.fn = fn
	return f.body, f.err
}

func TestFetchTopGroups_DropsUnknownDistricts(t *testing.T) {
	inv := &fakeInvoker{body: []byte(`[{"gu_name":"중구","crew_name":"Alpha"},{"gu_name":"Atlantis","crew_name":"Ghost"}]`)}

	entries, err := NewFetcher(inv, "").FetchTopGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultFunction, inv.fn)
	require.Len(t, entries, 1)

	want, _ := districts.Lookup("중구")
	assert.Equal(t, "중구", entries[0].DistrictName)
	assert.Equal(t, "Alpha", entries[0].GroupName)
	require.NotNil(t, entries[0].Position)
	assert.Equal(t, want, *entries[0].Position)
}

func TestFetchTopGroups_KeepsOrderAndLogo(t *testing.T) {
	inv := &fakeInvoker{body: []byte(`[
		{"gu_name":"강남구","crew_name":"Run A","logo_url":"https://cdn.example/a.png"},
		{"gu_name":"  강남구","crew_name":"Spaced"},
		{"gu_name":"마포구","crew_name":"Run B","logo_url":null}
	]`)}

	entries, err := NewFetcher(inv, "custom_fn").FetchTopGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom_fn", inv.fn)
	require.Len(t, entries, 2)
	assert.Equal(t, "강남구", entries[0].DistrictName)
	assert.Equal(t, "https://cdn.example/a.png", entries[0].LogoURL)
	assert.Equal(t, "마포구", entries[1].DistrictName)
	assert.Empty(t, entries[1].LogoURL)
	for _, e := range entries {
		assert.NotNil(t, e.Position)
	}
}

func TestFetchTopGroups_InvokeError(t *testing.T) {
	boom := errors.New("boom")
	entries, err := NewFetcher(&fakeInvoker{err: boom}, "").FetchTopGroups(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, entries)
}

func TestFetchTopGroups_DecodeError(t *testing.T) {
	_, err := NewFetcher(&fakeInvoker{body: []byte(`{"error":"x"}`)}, "").FetchTopGroups(context.Background())
	assert.Error(t, err)
}

func TestJoin_PositionsAreIndependent(t *testing.T) {
	entries := Join([]Record{{GuName: "종로구", CrewName: "A"}, {GuName: "종로구", CrewName: "B"}})
	require.Len(t, entries, 2)
	entries[0].Position.Lat = 0
	orig, _ := districts.Lookup("종로구")
	assert.Equal(t, orig, *entries[1].Position)
}
