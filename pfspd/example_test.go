package pfspd_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leoparders/pfspd/pfspd"
)

// Example_writeAndRead creates a small 4:2:2 file, stores one frame and
// reads it back.
func Example_writeAndRead() {
	name := filepath.Join(os.TempDir(), "example.yuv")
	defer os.Remove(name)
	defer pfspd.CloseAll()

	h, err := pfspd.NewHeader(pfspd.Color422, pfspd.Freq50)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	h.SetNumFrames(1)
	if err := h.SetDescription("example sequence"); err != nil {
		fmt.Println("Error:", err)
		return
	}
	if err := pfspd.WriteHeader(name, h); err != nil {
		fmt.Println("Error:", err)
		return
	}

	width, height := h.Width(), h.Height()
	y := make([]byte, width*height)
	uv := make([]byte, width*height)
	for i := range y {
		y[i] = 0x80
		uv[i] = 0x80
	}
	if err := pfspd.WriteFrame(name, h, 1, y, uv, width, height, width); err != nil {
		fmt.Println("Error:", err)
		return
	}

	g, err := pfspd.ReadHeader(name)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("%dx%d %s, %d frame(s)\n",
		g.Width(), g.Height(), g.ColorFormat(), g.NumFrames())
	fmt.Println(g.Description())

	if err := pfspd.ReadFrame(name, g, 1, y, uv, pfspd.ReadAll, width, height, width); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("first luma sample: 0x%02x\n", y[0])

	// Output:
	// 720x576 4:2:2, 1 frame(s)
	// example sequence
	// first luma sample: 0x80
}
