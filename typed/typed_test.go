package typed_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/on-the-ground/dispatch_ive_go/pipe"
	"github.com/on-the-ground/dispatch_ive_go/typed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelegates(t *testing.T) {
	v, err := typed.DelegateI0O1(func() string { return "hi" })()
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	v, err = typed.DelegateI1O1(strings.ToUpper)("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", v)

	v, err = typed.DelegateI2O1(strings.Repeat)("ab", 3)
	require.NoError(t, err)
	assert.Equal(t, "ababab", v)

	digits := typed.DelegateI3O1(func(a, b, c int) int { return a*100 + b*10 + c })
	v, err = digits(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 123, v)

	v, err = digits(1, 2)
	assert.ErrorIs(t, err, pipe.ErrArity)
	assert.Nil(t, v)
}

func TestDelegates_ArgumentTypes(t *testing.T) {
	d := typed.DelegateI2O1(strings.Repeat)

	_, err := d("ab", "3")
	require.ErrorIs(t, err, pipe.ErrType)
	assert.Contains(t, err.Error(), "args[1] is string, want int")

	_, err = d("ab")
	assert.ErrorIs(t, err, pipe.ErrArity)
}

func TestDelegates_ErrorVariants(t *testing.T) {
	atoi := typed.DelegateI1O1E(strconv.Atoi)

	v, err := atoi("12")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	_, err = atoi("x")
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestDelegates_BehindThePipeProtocol(t *testing.T) {
	repeat := pipe.MustFn("repeat", "str", pipe.Binary, typed.DelegateI2O1(strings.Repeat))
	upper := pipe.MustFn("upper", "str", pipe.Unary, typed.DelegateI1O1(strings.ToUpper))

	s, err := typed.Result[string](pipe.Chain("ab", repeat, 2, upper))
	require.NoError(t, err)
	assert.Equal(t, "ABAB", s)

	_, err = typed.Result[int](pipe.Chain("ab", upper))
	assert.ErrorIs(t, err, pipe.ErrType)

	_, err = typed.Result[string](pipe.Chain("ab", repeat, "2"))
	assert.ErrorIs(t, err, pipe.ErrType)
}
