// Package turtle is a headless implementation of the gui library: a grid
// world of blocks with turtle sprites that scripts drive through blocking
// natives.
//
// A host owns the World and advances it by calling Tick once per frame, either
// from its own render loop or through a Driver. Natives that animate a sprite
// or wait for input block the interpreter goroutine until the frame they need
// arrives; a cancelled tick or a closed world makes them return an Interrupted
// error.
package turtle
