package reply

import (
	"testing"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/stretchr/testify/require"
)

func TestDispatchByTag(t *testing.T) {
	var got []string
	router := NewRouter().
		Handle(1, "first", func(deps host.Deps, env host.Env, result host.SubMsgResult) (*host.Response, error) {
			got = append(got, "first")
			return host.NewResponse(), nil
		}).
		Handle(2, "second", func(deps host.Deps, env host.Env, result host.SubMsgResult) (*host.Response, error) {
			got = append(got, "second")
			return host.NewResponse().SetData(result.Ok.Data), nil
		})

	res, err := router.Dispatch(host.Deps{}, host.Env{}, host.Reply{ID: 2, Result: Ok([]byte("x"))})
	require.NoError(t, err)
	require.Equal(t, []byte("x"), res.Data)

	_, err = router.Dispatch(host.Deps{}, host.Env{}, host.Reply{ID: 1, Result: Ok(nil)})
	require.NoError(t, err)
	require.Equal(t, []string{"second", "first"}, got)

	_, err = router.Dispatch(host.Deps{}, host.Env{}, host.Reply{ID: 3, Result: Ok(nil)})
	if code.Of(err) != code.UnrecognizedReplyID {
		t.Fatalf("expected unrecognized reply id, got %v", err)
	}

	name, ok := router.Name(1)
	require.True(t, ok)
	require.Equal(t, "first", name)
}

func TestHandleTwicePanics(t *testing.T) {
	router := NewRouter().Handle(1, "first", nil)
	require.Panics(t, func() { router.Handle(1, "again", nil) })
}

func TestInstantiatedContract(t *testing.T) {
	addr, data, err := InstantiatedContract(1, Ok(InstantiatedData("mx1proxy", []byte("init"))))
	require.NoError(t, err)
	require.Equal(t, "mx1proxy", addr)
	require.Equal(t, []byte("init"), data)

	_, _, err = InstantiatedContract(1, Failed("out of gas"))
	require.Equal(t, code.SubOperationFailed, code.Of(err))

	_, _, err = InstantiatedContract(1, Ok(nil))
	require.Equal(t, code.MissingData, code.Of(err))

	_, _, err = InstantiatedContract(1, Ok([]byte("not json")))
	require.Equal(t, code.DecodeError, code.Of(err))
}

func TestExecutedData(t *testing.T) {
	data, err := ExecutedData(2, Ok(nil))
	require.NoError(t, err)
	require.Nil(t, data)

	_, err = ExecutedData(2, Failed("boom"))
	require.Equal(t, code.SubOperationFailed, code.Of(err))
}
