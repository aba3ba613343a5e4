// Package mocks provides centralized mock implementations for testing.
//
// Store and service mocks embed testify's mock.Mock; set expectations
// with On and check them with AssertExpectations. StaticJWTService uses
// fixed fields instead, for tests that only need canned tokens.
//
//	users := &mocks.UserStore{}
//	users.On("GetByID", mock.Anything, id).Return(user, nil)
//
// Store mocks return themselves from WithTx, so a Transactor that passes
// a nil *sql.Tx still routes calls to the same expectations.
package mocks
