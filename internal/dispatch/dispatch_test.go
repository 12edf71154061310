package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedNotification struct {
	title, body, tag string
}

type fakeHistory struct {
	records []recordedNotification
	err     error
}

func (f *fakeHistory) Record(ctx context.Context, title, body, tag string) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, recordedNotification{title, body, tag})
	return nil
}

type fakeDispatcher struct {
	granted bool
	permErr error
	showErr error
	shown   []recordedNotification
}

func (f *fakeDispatcher) RequestPermission(ctx context.Context) (bool, error) {
	return f.granted, f.permErr
}

func (f *fakeDispatcher) Show(ctx context.Context, title, body, tag string) error {
	if f.showErr != nil {
		return f.showErr
	}
	f.shown = append(f.shown, recordedNotification{title, body, tag})
	return nil
}

func TestLocalRecordsHistory(t *testing.T) {
	history := &fakeHistory{}
	l := NewLocal(history, nil)

	granted, err := l.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)

	require.NoError(t, l.Show(context.Background(), "3 Earnings Today", "AAPL, MSFT, NVDA", TagDailyEarnings))
	require.Len(t, history.records, 1)
	assert.Equal(t, recordedNotification{"3 Earnings Today", "AAPL, MSFT, NVDA", TagDailyEarnings}, history.records[0])
}

func TestLocalWithoutHistoryOnlyLogs(t *testing.T) {
	l := NewLocal(nil, nil)
	assert.NoError(t, l.Show(context.Background(), "t", "b", TagTest))
}

func TestLocalPropagatesRecordError(t *testing.T) {
	l := NewLocal(&fakeHistory{err: errors.New("insert failed")}, nil)
	assert.Error(t, l.Show(context.Background(), "t", "b", TagTest))
}

func TestMultiPermissionGrantedWhenAnyGrants(t *testing.T) {
	m := Multi{
		&fakeDispatcher{granted: false},
		&fakeDispatcher{granted: true},
	}
	granted, err := m.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestMultiPermissionDeniedWithErrors(t *testing.T) {
	m := Multi{
		&fakeDispatcher{permErr: errors.New("surface down")},
		&fakeDispatcher{granted: false},
	}
	granted, err := m.RequestPermission(context.Background())
	assert.False(t, granted)
	assert.Error(t, err)
}

func TestMultiShowReachesAllBackends(t *testing.T) {
	a := &fakeDispatcher{}
	b := &fakeDispatcher{showErr: errors.New("push down")}
	c := &fakeDispatcher{}

	err := Multi{a, b, c}.Show(context.Background(), "t", "b", TagEarningsChange)
	assert.Error(t, err)

	// the failing backend does not stop the others
	assert.Len(t, a.shown, 1)
	assert.Len(t, c.shown, 1)
}

func TestNewWebPushRequiresKeys(t *testing.T) {
	assert.Nil(t, NewWebPush(nil, "mailto:x@y.z", "", "priv", nil))
	assert.Nil(t, NewWebPush(nil, "mailto:x@y.z", "pub", "", nil))
	assert.NotNil(t, NewWebPush(nil, "mailto:x@y.z", "pub", "priv", nil))
}
