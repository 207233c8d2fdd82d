package main

// Build-time identity, injected via -ldflags:
//
//	go build -ldflags="-X main.commitHash=${COMMIT_HASH}"
var commitHash = "dev"
