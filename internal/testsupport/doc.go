// Package testsupport provides fixtures shared by package tests: temp-dir
// backed configs, stub ffmpeg binaries, and HAR archive builders.
package testsupport
