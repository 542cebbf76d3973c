package follow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/internal/cmd/cmdtest"
	"github.com/agentstation/papertrail/pkg/errors"
)

func TestFollowAndUnfollow(t *testing.T) {
	src := cmdtest.NewSource()
	munos := cmdtest.Author(t, "Rémi Munos")
	src.Set("Remi Munos", cmdtest.Paper(t, "2101.00001", 1, time.Hour, munos))
	pt := cmdtest.Papertrail(t, src)
	app := cmdtest.App(pt, "table")

	out, err := cmdtest.Run(t, NewFollowCommand(app), "Remi Munos")
	require.NoError(t, err)
	assert.Contains(t, out, "Following Rémi Munos ("+munos.ID().String()+")")

	out, err = cmdtest.Run(t, NewFollowCommand(app), "Remi Munos")
	require.NoError(t, err, "following twice only warns")
	assert.Contains(t, out, "Already following Remi Munos")

	followees, err := pt.Followees(context.Background())
	require.NoError(t, err)
	require.Len(t, followees, 1)

	out, err = cmdtest.Run(t, NewUnfollowCommand(app), "Rémi Munos")
	require.NoError(t, err)
	assert.Contains(t, out, "Unfollowed Rémi Munos")

	followees, err = pt.Followees(context.Background())
	require.NoError(t, err)
	assert.Empty(t, followees)
}

func TestFollowCollectsFailures(t *testing.T) {
	src := cmdtest.NewSource()
	munos := cmdtest.Author(t, "Rémi Munos")
	src.Set("Remi Munos", cmdtest.Paper(t, "2101.00001", 1, time.Hour, munos))
	app := cmdtest.App(cmdtest.Papertrail(t, src), "table")

	out, err := cmdtest.Run(t, NewFollowCommand(app), "Nobody Known", "Remi Munos")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, out, "Following Rémi Munos", "later names are still followed")
}

func TestUnfollowNotFollowed(t *testing.T) {
	app := cmdtest.App(cmdtest.Papertrail(t, cmdtest.NewSource()), "table")

	_, err := cmdtest.Run(t, NewUnfollowCommand(app), "Rémi Munos")
	assert.ErrorIs(t, err, errors.ErrNotFollowed)
}

func TestFollowRequiresName(t *testing.T) {
	app := cmdtest.App(cmdtest.Papertrail(t, cmdtest.NewSource()), "table")

	_, err := cmdtest.Run(t, NewFollowCommand(app))
	assert.Error(t, err)
}
