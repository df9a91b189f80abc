// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"testing"

	"github.com/creachadair/jsift/ast"
	"github.com/creachadair/mds/mtest"
)

func TestToValue(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{nil, `null`},
		{true, `true`},
		{"a\nb", `"a\nb"`},
		{3, `3`},
		{int64(-7), `-7`},
		{2.5, `2.5`},
		{ast.String("kept"), `"kept"`},
		{[]any{1, "x", nil, []int{2}}, `[1,"x",null,[2]]`},
		{[]string{"p", "q"}, `["p","q"]`},
		{map[string]any{"b": 1, "a": []any{true}}, `{"a":[true],"b":1}`},
		{ast.Field("k", ast.Bool(false)), `{"k":false}`},
		{[]*ast.Member{ast.Field("z", ast.Null{}), ast.Field("y", ast.Number(1))}, `{"z":null,"y":1}`},
	}
	for _, test := range tests {
		if got := ast.ToValue(test.input).JSON(); got != test.want {
			t.Errorf("ToValue(%#v): got %s, want %s", test.input, got, test.want)
		}
	}
	if got := ast.ArrayOf(1, 2, 3).JSON(); got != `[1,2,3]` {
		t.Errorf("ArrayOf: got %s, want [1,2,3]", got)
	}
}

func TestToValueInvalid(t *testing.T) {
	mtest.MustPanic(t, func() { ast.ToValue([]bool{true}) })
	mtest.MustPanic(t, func() { ast.ToValue(func() {}) })
	mtest.MustPanic(t, func() { ast.ToValue(make(chan struct{})) })
	mtest.MustPanic(t, func() { ast.ToValue(map[int]string{1: "x"}) })
}
