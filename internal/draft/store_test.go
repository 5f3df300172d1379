package draft

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

func TestStore_SetFieldLeavesSnapshot(t *testing.T) {
	s := NewStore(listing.PartnerSchema, partnerFields())

	require.NoError(t, s.SetField("title", listing.Text("New")))
	assert.Equal(t, "New", s.GetField("title", listing.Unset()).AsText())
	assert.Equal(t, "Fast rides", s.Snapshot()["title"].AsText())
	assert.True(t, s.Dirty())
	assert.Equal(t, []string{"title"}, s.DirtyFields())
}

func TestStore_SetFieldChecksSchema(t *testing.T) {
	s := NewStore(listing.PartnerSchema, nil)

	require.ErrorIs(t, s.SetField("nope", listing.Text("x")), listing.ErrUnknownField)
	require.ErrorIs(t, s.SetField("rating", listing.Unset()), listing.ErrFieldKind)
	assert.False(t, s.Dirty())
}

func TestStore_ResetIsExact(t *testing.T) {
	s := NewStore(listing.PartnerSchema, partnerFields())
	require.NoError(t, s.SetField("website", listing.Text("https://taxi.example")))
	require.NoError(t, s.SetField("services", listing.List()))

	s.Reset()
	assert.True(t, s.Current().Equal(partnerFields()))
	assert.Empty(t, s.DirtyFields())
}

func TestStore_CommitKeepsUnsettledKeys(t *testing.T) {
	s := NewStore(listing.PartnerSchema, partnerFields())
	require.NoError(t, s.SetField("title", listing.Text("published")))
	require.NoError(t, s.SetField("phone", listing.Text("unsaved")))
	require.NoError(t, s.SetField("email", listing.Text("new@taxi.example")))

	s.Commit("phone", "email")

	snap := s.Snapshot()
	assert.Equal(t, "published", snap["title"].AsText())
	assert.Equal(t, "+421 900 000 000", snap["phone"].AsText())
	_, hasEmail := snap["email"]
	assert.False(t, hasEmail)
	assert.Equal(t, []string{"email", "phone"}, s.DirtyFields())
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore(listing.PartnerSchema, partnerFields())

	cur := s.Current()
	cur["title"] = listing.Text("mutated")
	assert.Equal(t, "Fast rides", s.GetField("title", listing.Unset()).AsText())
}

func TestTimerScheduler_ArmReplacesAndCancelDrops(t *testing.T) {
	s := NewTimerScheduler()
	var fired atomic.Int32

	s.Arm(time.Hour, func() { fired.Add(100) })
	s.Arm(5*time.Millisecond, func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)

	s.Arm(5*time.Millisecond, func() { fired.Add(10) })
	s.Cancel()
	time.Sleep(30 * time.Millisecond)
	assert.EqualValues(t, 1, fired.Load())
}
