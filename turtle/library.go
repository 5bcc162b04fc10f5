package turtle

import (
	"time"

	"github.com/turtlico/turtlicoscript/tcs"
)

// LibraryName is the name the turtle library is imported under.
const LibraryName = "gui"

type guiContext struct {
	world *World
}

// NewLibrary builds the gui library bound to world. A default turtle is
// created and its methods are exported as plain functions, so scripts can
// write `go 5` instead of `$turtle.go(5)`.
func NewLibrary(world *World) *tcs.Library {
	lib := tcs.NewLibrary(LibraryName, &guiContext{world: world})
	lib.Register("new_turtle", func(ctx tcs.LibraryContext, _ *tcs.Object, args []tcs.Value) (tcs.Value, error) {
		if len(args) != 0 {
			return tcs.NewNone(), tcs.ErrInvalidArgCount(len(args), 0)
		}
		gui, err := tcs.UnwrapContext[*guiContext](ctx)
		if err != nil {
			return tcs.NewNone(), err
		}
		return tcs.NewObject(newTurtle(lib, gui.world)), nil
	})
	lib.Register("wait", wait)

	turtle := newTurtle(lib, world)
	lib.Export(turtle)
	lib.Define("turtle", tcs.NewObject(turtle))
	return lib
}

func newTurtle(lib *tcs.Library, world *World) *tcs.Object {
	obj := tcs.NewEmptyObject()
	obj.SetField("sprite_id", tcs.NewInt(int32(world.addSprite())))
	lib.BindMethods(obj, turtleMethods)
	return obj
}

var turtleMethods = []tcs.Method{
	{Name: "go", Fn: turtleGo},
	{Name: "set_xy", Fn: positionSetter(BlockSize, true)},
	{Name: "set_xy_px", Fn: positionSetter(1, true)},
	{Name: "set_target_xy", Fn: positionSetter(BlockSize, false)},
	{Name: "set_target_xy_px", Fn: positionSetter(1, false)},
	{Name: "block_xy", Fn: turtleBlockXY, Property: true},
	{Name: "set_rot", Fn: rotation(0, 1, false)},
	{Name: "left", Fn: rotation(90, -1, true)},
	{Name: "right", Fn: rotation(90, 1, true)},
	{Name: "speed", Fn: turtleSpeed},
	{Name: "skin", Fn: turtleSkin},
	{Name: "place_block", Fn: placeBlock},
	{Name: "destroy_block", Fn: destroyBlock},
}

// method resolves the world and sprite a turtle method operates on.
func method(ctx tcs.LibraryContext, this *tcs.Object) (*World, SpriteID, error) {
	id, err := tcs.ThisInt(this, "sprite_id")
	if err != nil {
		return nil, 0, err
	}
	gui, err := tcs.UnwrapContext[*guiContext](ctx)
	if err != nil {
		return nil, 0, err
	}
	return gui.world, SpriteID(id), nil
}

var goArgs = tcs.Args(tcs.OptionalArg(tcs.ArgFloat, tcs.NewInt(1)))

func turtleGo(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
	world, id, err := method(ctx, this)
	if err != nil {
		return tcs.NewNone(), err
	}
	args, err = goArgs.Check(args)
	if err != nil {
		return tcs.NewNone(), err
	}
	return tcs.NewNone(), world.forward(id, numeric(args[0]))
}

// numeric reads a checked ArgFloat slot, which holds an int only when the
// default was used.
func numeric(v tcs.Value) float64 {
	if v.Kind() == tcs.KindInt {
		return float64(v.Int())
	}
	return v.Float()
}

var positionArgs = tcs.Args(tcs.Arg(tcs.ArgFloat), tcs.Arg(tcs.ArgFloat))

func positionSetter(scale float64, wait bool) tcs.NativeFn {
	return func(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
		world, id, err := method(ctx, this)
		if err != nil {
			return tcs.NewNone(), err
		}
		args, err = positionArgs.Check(args)
		if err != nil {
			return tcs.NewNone(), err
		}
		x, y := args[0].Float()*scale, args[1].Float()*scale
		if wait {
			return tcs.NewNone(), world.moveTo(id, x, y)
		}
		return tcs.NewNone(), world.setTarget(id, x, y)
	}
}

func turtleBlockXY(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
	world, id, err := method(ctx, this)
	if err != nil {
		return tcs.NewNone(), err
	}
	if len(args) != 0 {
		return tcs.NewNone(), tcs.ErrInvalidArgCount(len(args), 0)
	}
	x, y, err := world.blockXY(id)
	if err != nil {
		return tcs.NewNone(), err
	}
	pos := tcs.NewEmptyObject()
	pos.SetField("x", tcs.NewInt(int32(x)))
	pos.SetField("y", tcs.NewInt(int32(y)))
	return tcs.NewObject(pos), nil
}

// rotation builds set_rot, left and right. Angles are in degrees; sign flips
// the direction.
func rotation(def int32, sign float64, relative bool) tcs.NativeFn {
	schema := tcs.Args(tcs.OptionalArg(tcs.ArgFloat, tcs.NewInt(def)))
	return func(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
		world, id, err := method(ctx, this)
		if err != nil {
			return tcs.NewNone(), err
		}
		args, err = schema.Check(args)
		if err != nil {
			return tcs.NewNone(), err
		}
		return tcs.NewNone(), world.turn(id, sign*numeric(args[0]), relative)
	}
}

var speedArgs = tcs.Args(tcs.OptionalArg(tcs.ArgFloat, tcs.NewFloat(1)))

func turtleSpeed(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
	world, id, err := method(ctx, this)
	if err != nil {
		return tcs.NewNone(), err
	}
	args, err = speedArgs.Check(args)
	if err != nil {
		return tcs.NewNone(), err
	}
	return tcs.NewNone(), world.setSpeed(id, args[0].Float())
}

var skinArgs = tcs.Args(tcs.Arg(tcs.ArgImage))

func turtleSkin(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
	world, id, err := method(ctx, this)
	if err != nil {
		return tcs.NewNone(), err
	}
	args, err = skinArgs.Check(args)
	if err != nil {
		return tcs.NewNone(), err
	}
	return tcs.NewNone(), world.setSkin(id, args[0].Str())
}

func placeBlock(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
	return changeBlock(ctx, this, args, false)
}

func destroyBlock(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value) (tcs.Value, error) {
	return changeBlock(ctx, this, args, true)
}

// changeBlock accepts, in any order: an image naming the block, up to two
// ints or an {x, y} object selecting the cell, and the string "on_sprite".
func changeBlock(ctx tcs.LibraryContext, this *tcs.Object, args []tcs.Value, destroy bool) (tcs.Value, error) {
	world, id, err := method(ctx, this)
	if err != nil {
		return tcs.NewNone(), err
	}
	target := blockTarget{destroyBlock: destroy}
	for i, arg := range args {
		switch arg.Kind() {
		case tcs.KindImage:
			if destroy {
				return tcs.NewNone(), tcs.ErrInvalidArgType(i)
			}
			target.block = arg.Str()
		case tcs.KindInt:
			n := int(arg.Int())
			switch {
			case target.x == nil:
				target.x = &n
			case target.y == nil:
				target.y = &n
			default:
				return tcs.NewNone(), tcs.ErrInvalidArgType(i)
			}
		case tcs.KindObject:
			x, err := coordinate(arg.Object(), "x")
			if err != nil {
				return tcs.NewNone(), err
			}
			y, err := coordinate(arg.Object(), "y")
			if err != nil {
				return tcs.NewNone(), err
			}
			target.x, target.y = &x, &y
		case tcs.KindString:
			if arg.Str() == "on_sprite" {
				target.onSprite = true
			}
		default:
			return tcs.NewNone(), tcs.ErrInvalidArgType(i)
		}
	}
	if !destroy && target.block == "" {
		return tcs.NewNone(), tcs.ErrMissingParam("block")
	}
	return tcs.NewNone(), world.applyBlock(id, target)
}

func coordinate(obj *tcs.Object, field string) (int, error) {
	v, ok := obj.Field(field)
	if !ok {
		return 0, tcs.ErrInvalidIdentifier(field)
	}
	n, err := v.ToInt()
	if err != nil {
		return 0, tcs.ErrNativeLibrary("block coordinate %s must be an int, got %s", field, v.TypeName())
	}
	return int(n), nil
}

var waitArgs = tcs.Args(tcs.OptionalArg(tcs.ArgFloat, tcs.NewFloat(0)))

// wait pauses the script. Without an argument it waits for a key press or a
// click; short pauses sleep, longer ones follow the host's frames so they can
// be cancelled.
func wait(ctx tcs.LibraryContext, _ *tcs.Object, args []tcs.Value) (tcs.Value, error) {
	gui, err := tcs.UnwrapContext[*guiContext](ctx)
	if err != nil {
		return tcs.NewNone(), err
	}
	args, err = waitArgs.Check(args)
	if err != nil {
		return tcs.NewNone(), err
	}
	seconds := args[0].Float()
	switch {
	case seconds < 0:
		return tcs.NewNone(), tcs.ErrNativeLibrary("wait: negative duration %g", seconds)
	case seconds == 0:
		return tcs.NewNone(), gui.world.waitForInput()
	case seconds <= 0.1:
		time.Sleep(time.Duration(seconds * float64(time.Second)))
		return tcs.NewNone(), nil
	}
	deadline := time.Now().Add(time.Duration(seconds * float64(time.Second)))
	for time.Now().Before(deadline) {
		if !gui.world.nextFrame() {
			return tcs.NewNone(), tcs.Interrupted()
		}
	}
	return tcs.NewNone(), nil
}
