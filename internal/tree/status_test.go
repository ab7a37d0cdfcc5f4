package tree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktree/tasktree/internal/domain"
)

func TestAvailability_Scenario(t *testing.T) {
	tr := newTestTree(t)
	a, _ := tr.CreateTask("A", nil)
	b, _ := tr.CreateTask("B", nil)
	c, _ := tr.CreateTask("C", nil)
	require.NoError(t, tr.AddDependency(a.ID, b.ID))
	require.NoError(t, tr.AddDependency(a.ID, c.ID))

	ok, err := tr.Available(a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	became, err := tr.SetStatus(b.ID, domain.StatusClosed)
	require.NoError(t, err)
	assert.Empty(t, became)
	ok, _ = tr.Available(a.ID)
	assert.False(t, ok)

	became, err = tr.SetStatus(c.ID, domain.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{a.ID}, became)
	ok, _ = tr.Available(a.ID)
	assert.True(t, ok)
}

func TestAvailable_Rules(t *testing.T) {
	tr := newFixture(t)

	leaf, _ := tr.Available(5)
	assert.True(t, leaf, "open task with no children")

	_, err := tr.SetStatus(5, domain.StatusInProgress)
	require.NoError(t, err)
	leaf, _ = tr.Available(5)
	assert.True(t, leaf, "in progress task with no children")

	_, err = tr.SetStatus(5, domain.StatusClosed)
	require.NoError(t, err)
	leaf, _ = tr.Available(5)
	assert.False(t, leaf, "closed task")

	_, err = tr.Available(99)
	assert.True(t, domain.HasCode(err, domain.ErrCodeTaskNotFound))
}

func TestSetStatus_NotifiesDirectParentsOnly(t *testing.T) {
	tr := newFixture(t)

	_, err := tr.SetStatus(3, domain.StatusClosed)
	require.NoError(t, err)
	became, err := tr.SetStatus(5, domain.StatusClosed)
	require.NoError(t, err)
	// 3 is closed itself, 4 still waits on 6.
	assert.Empty(t, became)

	became, err = tr.SetStatus(6, domain.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{4, 7}, became)

	_, err = tr.SetStatus(4, domain.StatusClosed)
	require.NoError(t, err)
	became, err = tr.SetStatus(7, domain.StatusClosed)
	require.NoError(t, err)
	// 1 still depends on open task 2; 2 is a sibling, not a parent of 7.
	assert.Empty(t, became)

	became, err = tr.SetStatus(2, domain.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{1}, became)
}

func TestSetStatus_ReopeningChildBlocksParent(t *testing.T) {
	tr := newTestTree(t)
	a, _ := tr.CreateTask("A", nil)
	b, _ := tr.CreateTask("B", nil)
	require.NoError(t, tr.AddDependency(a.ID, b.ID))

	became, err := tr.SetStatus(b.ID, domain.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{a.ID}, became)

	became, err = tr.SetStatus(b.ID, domain.StatusOpen)
	require.NoError(t, err)
	assert.Empty(t, became)
	ok, _ := tr.Available(a.ID)
	assert.False(t, ok)
}

func TestSetStatus_NoParents(t *testing.T) {
	tr := newTestTree(t)
	a, _ := tr.CreateTask("A", nil)

	became, err := tr.SetStatus(a.ID, domain.StatusClosed)
	require.NoError(t, err)
	assert.Empty(t, became)
}

func TestSetStatus_UpdatesTimestamp(t *testing.T) {
	now := fixedNow
	tr := New(WithClock(func() time.Time { return now }))
	a, _ := tr.CreateTask("A", nil)

	now = fixedNow.Add(time.Hour)
	_, err := tr.SetStatus(a.ID, domain.StatusInProgress)
	require.NoError(t, err)

	got, _ := tr.Task(a.ID)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, fixedNow.Add(time.Hour), got.UpdatedAt)
}

func TestSetStatus_Errors(t *testing.T) {
	tr := newFixture(t)

	_, err := tr.SetStatus(99, domain.StatusClosed)
	assert.True(t, domain.HasCode(err, domain.ErrCodeTaskNotFound))

	_, err = tr.SetStatus(1, domain.TaskStatus("done"))
	assert.True(t, domain.HasCode(err, domain.ErrCodeValidationFailed))
	got, _ := tr.Task(1)
	assert.Equal(t, domain.StatusOpen, got.Status)
}
