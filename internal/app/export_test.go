package app

// RunSpec exposes the flag and workspace file precedence for tests.
var RunSpec = runSpec
