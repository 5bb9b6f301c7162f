package main

import (
	"fmt"
	"log"
	"os"
	"sync"
	"unsafe"

	"github.com/gordonklaus/portaudio"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/kestrelcore/nesgo/pkg/console"
	"github.com/kestrelcore/nesgo/pkg/controller"
	"github.com/kestrelcore/nesgo/pkg/ppu"
)

const (
	ScreenWidth  = 256
	ScreenHeight = 240
	WindowScale  = 3
)

// audioBridge feeds PortAudio's pull-based callback from the console's
// push-based sample queue, matching the buffer-swap pattern the APU
// itself used to own before output devices moved to this package.
type audioBridge struct {
	mu      sync.Mutex
	backlog []float32
}

func (b *audioBridge) feed(samples []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.backlog = append(b.backlog, samples...)
}

func (b *audioBridge) callback(out []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := copy(out, b.backlog)
	for i := n; i < len(out); i++ {
		out[i] = 0 // underrun: pad with silence rather than stutter
	}
	b.backlog = b.backlog[n:]
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: nesgo <rom-file>")
		os.Exit(1)
	}
	romPath := os.Args[1]

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("failed to initialize SDL: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"nesgo - "+romPath,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		ScreenWidth*WindowScale, ScreenHeight*WindowScale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		log.Fatalf("failed to create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		log.Fatalf("failed to create renderer: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING,
		ScreenWidth, ScreenHeight,
	)
	if err != nil {
		log.Fatalf("failed to create texture: %v", err)
	}
	defer texture.Destroy()

	nes, err := console.New(romPath)
	if err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	cart := nes.GetCartridge()
	fmt.Printf("Mapper: %d\n", cart.GetMapperID())
	fmt.Printf("PRG Banks: %d x 16KB = %dKB\n", cart.GetPRGBanks(), cart.GetPRGBanks()*16)
	fmt.Printf("CHR Banks: %d x 8KB = %dKB\n", cart.GetCHRBanks(), cart.GetCHRBanks()*8)

	bridge := &audioBridge{}
	if err := portaudio.Initialize(); err != nil {
		log.Fatalf("failed to initialize PortAudio: %v", err)
	}
	defer portaudio.Terminate()

	stream, err := portaudio.OpenDefaultStream(0, 1, console.AudioSampleRate, 0, bridge.callback)
	if err != nil {
		log.Fatalf("failed to open audio stream: %v", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		log.Fatalf("failed to start audio stream: %v", err)
	}
	defer stream.Stop()

	nes.Reset()
	pad1 := nes.Controller(0)

	pixels := make([]byte, ScreenWidth*ScreenHeight*3)

	fmt.Println("System: ESC=quit | P=pause | SPACE=step | R=reset")
	fmt.Println("Game:   Arrows=D-pad | Z=B | X=A | Enter=Start | RShift=Select")

	running := true
	paused := false
	frameCount := 0

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false

			case *sdl.KeyboardEvent:
				pressed := e.Type == sdl.KEYDOWN

				if pressed {
					switch e.Keysym.Sym {
					case sdl.K_ESCAPE:
						running = false
						continue
					case sdl.K_SPACE:
						if paused {
							nes.StepFrame()
							frameCount++
						}
						continue
					case sdl.K_p:
						paused = !paused
						continue
					case sdl.K_r:
						nes.Reset()
						frameCount = 0
						continue
					}
				}

				switch e.Keysym.Sym {
				case sdl.K_x:
					pad1.SetButton(controller.ButtonA, pressed)
				case sdl.K_z:
					pad1.SetButton(controller.ButtonB, pressed)
				case sdl.K_RSHIFT:
					pad1.SetButton(controller.ButtonSelect, pressed)
				case sdl.K_RETURN:
					pad1.SetButton(controller.ButtonStart, pressed)
				case sdl.K_UP:
					pad1.SetButton(controller.ButtonUp, pressed)
				case sdl.K_DOWN:
					pad1.SetButton(controller.ButtonDown, pressed)
				case sdl.K_LEFT:
					pad1.SetButton(controller.ButtonLeft, pressed)
				case sdl.K_RIGHT:
					pad1.SetButton(controller.ButtonRight, pressed)
				}
			}
		}

		if !paused {
			nes.StepFrame()
			frameCount++
		}

		bridge.feed(nes.PendingSamples())

		if frame, ok := nes.PendingFrame(); ok {
			for i := 0; i < ScreenWidth*ScreenHeight; i++ {
				color := ppu.HardwarePalette[frame[i]&0x3F]
				pixels[i*3+0] = color.R
				pixels[i*3+1] = color.G
				pixels[i*3+2] = color.B
			}
			texture.Update(nil, unsafe.Pointer(&pixels[0]), ScreenWidth*3)
		}

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		if !paused {
			sdl.Delay(16)
		} else {
			sdl.Delay(100)
		}
	}

	fmt.Printf("\nTotal frames rendered: %d\n", frameCount)
}
