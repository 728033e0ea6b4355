// Package mocks provides mock implementations for testing the session core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockCredentialStore(ctrl)
//	store.EXPECT().Load(gomock.Any()).Return(rec, nil)
package mocks

// Generate mocks for the port interfaces consumed by the auth and notice
// services: CredentialStore, AuthAPI, NoticeFetcher, NoticePusher and
// NoticeSubscription.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=ports_mock.go github.com/campuskit/campus-client/internal/ports CredentialStore,AuthAPI,NoticeFetcher,NoticePusher,NoticeSubscription
