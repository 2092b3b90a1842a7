package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	for c := OpenMain; c <= Quit; c++ {
		got, err := Parse(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := Parse("explode")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	got, err := Parse("  ADD-REMINDER ")
	require.NoError(t, err)
	assert.Equal(t, AddReminder, got)
}

func TestDispatch(t *testing.T) {
	d := NewDispatcher()
	d.Register(About, func(ctx context.Context, req Request) (Result, error) {
		return Result{Message: "about"}, nil
	})
	d.Register(SetSource, func(ctx context.Context, req Request) (Result, error) {
		path, err := req.Arg("path")
		if err != nil {
			return Result{}, err
		}
		return Result{Message: path}, nil
	})

	res, err := d.Dispatch(context.Background(), Request{Command: About})
	require.NoError(t, err)
	assert.Equal(t, "about", res.Message)

	_, err = d.Dispatch(context.Background(), Request{Command: SetSource})
	assert.ErrorIs(t, err, ErrMissingArgument)

	res, err = d.Dispatch(context.Background(), Request{Command: SetSource, Args: map[string]string{"path": "/r.json"}})
	require.NoError(t, err)
	assert.Equal(t, "/r.json", res.Message)

	_, err = d.Dispatch(context.Background(), Request{Command: Quit})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	assert.Equal(t, []Command{About, SetSource}, d.Commands())
}

func TestString_Unknown(t *testing.T) {
	assert.Equal(t, "command(99)", Command(99).String())
}
