// Package loom is the runtime used by code generated by the loom tool.
//
// A Session scopes one user's controllers: generated creators read the
// application context, event bus and router from it and cache controllers
// marked with -Cache in its Store. Controllers embed BaseController and
// components embed BaseComponent so creators can inject those collaborators.
package loom
