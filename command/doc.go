// Package command implements the line-oriented control protocol spec.md
// §4.8 exposes for scripted end-to-end testing: one command per input
// line, one or more `CMD:OK:...`/`CMD:ERR:...` response lines per
// command, dispatched against an appcore.App. It has no pack-library
// analogue (see SPEC_FULL.md's DOMAIN STACK / DESIGN.md) and is built
// directly on bufio.Scanner, logged with the same logrus convention as
// every other package.
package command
