package mocks

import (
	mock "github.com/stretchr/testify/mock"

	require "github.com/stackb/cjs/pkg/require"
)

// Engine is a testify mock of require.Engine.
type Engine struct {
	mock.Mock
}

// NewExports provides a mock function with given fields:
func (_m *Engine) NewExports() any {
	ret := _m.Called()

	var r0 any
	if rf, ok := ret.Get(0).(func() any); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0)
	}
	return r0
}

// ExecScript provides a mock function with given fields: u
func (_m *Engine) ExecScript(u *require.Unit) error {
	ret := _m.Called(u)

	var r0 error
	if rf, ok := ret.Get(0).(func(*require.Unit) error); ok {
		r0 = rf(u)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// DecodeData provides a mock function with given fields: u
func (_m *Engine) DecodeData(u *require.Unit) (any, error) {
	ret := _m.Called(u)

	if rf, ok := ret.Get(0).(func(*require.Unit) (any, error)); ok {
		return rf(u)
	}

	var r0 any
	if rf, ok := ret.Get(0).(func(*require.Unit) any); ok {
		r0 = rf(u)
	} else {
		r0 = ret.Get(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(*require.Unit) error); ok {
		r1 = rf(u)
	} else {
		r1 = ret.Error(1)
	}
	return r0, r1
}

// NewEngine creates a new instance of Engine. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewEngine(t interface {
	mock.TestingT
	Cleanup(func())
}) *Engine {
	m := &Engine{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// UnitFor matches a compilation request by the unit's effective path.
func UnitFor(filename string) any {
	return mock.MatchedBy(func(u *require.Unit) bool {
		return u.Filename() == filename
	})
}
