// Package sharedmimeinfo implements the [Shared MIME-info specification].
// It loads the subclasses files as the full set of (child, parent) pairs, and the aliases files
// as an alias to canonical name mapping.
// For example; application/ld+json is a subclass of application/json, which, in turn, is a
// subclass of application/json5.
//
// [Shared MIME-info specification]: https://specifications.freedesktop.org/shared-mime-info-spec/0.22/
package sharedmimeinfo
