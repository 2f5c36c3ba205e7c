//go:build windows

package window

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"screen-snip/src/events"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

const vkS = 0x53

// One overlay window per process; the WndProc callback cannot carry
// instance state, so it reaches this variable.
var active *winOverlay

type winOverlay struct {
	hwnd      win.HWND
	className *uint16
	width     int32
	height    int32

	mouseX    int32
	mouseY    int32
	mouseSeen bool
	mouseDown bool
	open      bool

	pix []uint32
}

func newPlatformOverlay(title string, width, height int) (Overlay, error) {
	o := &winOverlay{width: int32(width), height: int32(height), open: true}
	active = o

	// Unique class name so a crashed prior instance cannot block
	// re-registration.
	classNameStr := fmt.Sprintf("ScreenSnipOverlay_%d", time.Now().UnixNano())
	o.className = syscall.StringToUTF16Ptr(classNameStr)

	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS)),
		HbrBackground: 0,
		LpszClassName: o.className,
	}
	if win.RegisterClassEx(&wndClass) == 0 {
		return nil, fmt.Errorf("failed to register overlay window class")
	}

	// Borderless, topmost, full primary-display size. Created off-screen;
	// the frame loop positions it.
	o.hwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST,
		o.className,
		syscall.StringToUTF16Ptr(title),
		win.WS_POPUP|win.WS_VISIBLE,
		-2*o.width, -2*o.height, o.width, o.height,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if o.hwnd == 0 {
		win.UnregisterClass(o.className)
		return nil, fmt.Errorf("failed to create overlay window")
	}

	win.ShowWindow(o.hwnd, win.SW_SHOW)
	win.UpdateWindow(o.hwnd)
	return o, nil
}

func (o *winOverlay) SetTitle(title string) {
	t := syscall.StringToUTF16Ptr(title)
	win.SendMessage(o.hwnd, win.WM_SETTEXT, 0, uintptr(unsafe.Pointer(t)))
}

func (o *winOverlay) SetPosition(x, y int) {
	win.SetWindowPos(o.hwnd, win.HWND_TOPMOST, int32(x), int32(y), o.width, o.height,
		win.SWP_NOSIZE|win.SWP_NOACTIVATE)
	if x == 0 && y == 0 {
		win.SetForegroundWindow(o.hwnd)
		win.BringWindowToTop(o.hwnd)
		win.SetFocus(o.hwnd)
	}
}

// Poll pumps every pending window message, then snapshots input. Keys are
// sampled only while the overlay is the foreground window, so Escape and
// S in other applications are not misread as ours.
func (o *winOverlay) Poll() Frame {
	var msg win.MSG
	for win.PeekMessage(&msg, 0, 0, 0, win.PM_REMOVE) {
		if msg.Message == win.WM_QUIT {
			o.open = false
			break
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}

	f := Frame{
		MouseX:      int(clampI32(o.mouseX, 0, o.width-1)),
		MouseY:      int(clampI32(o.mouseY, 0, o.height-1)),
		MouseInside: o.mouseSeen,
		MouseDown:   o.mouseDown,
		Open:        o.open,
	}
	if win.GetForegroundWindow() == o.hwnd {
		f.Keys[events.KeyEscape] = asyncKeyDown(win.VK_ESCAPE)
		f.Keys[events.KeyS] = asyncKeyDown(vkS)
	}
	return f
}

func (o *winOverlay) Present(pix []uint32) {
	o.pix = pix
	win.InvalidateRect(o.hwnd, nil, false)
	win.UpdateWindow(o.hwnd)
}

func (o *winOverlay) Close() {
	if o.open {
		o.open = false
		win.DestroyWindow(o.hwnd)
		win.UnregisterClass(o.className)
	}
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	o := active
	if o == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_LBUTTONDOWN:
		o.mouseX = int32(int16(win.LOWORD(uint32(lParam))))
		o.mouseY = int32(int16(win.HIWORD(uint32(lParam))))
		o.mouseDown = true
		win.SetCapture(hwnd)
		return 0

	case win.WM_LBUTTONUP:
		o.mouseX = int32(int16(win.LOWORD(uint32(lParam))))
		o.mouseY = int32(int16(win.HIWORD(uint32(lParam))))
		o.mouseDown = false
		win.ReleaseCapture()
		return 0

	case win.WM_MOUSEMOVE:
		o.mouseX = int32(int16(win.LOWORD(uint32(lParam))))
		o.mouseY = int32(int16(win.HIWORD(uint32(lParam))))
		o.mouseSeen = true
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		o.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_NCHITTEST:
		// Everything is client area so the window sees every mouse event.
		return uintptr(win.HTCLIENT)

	case win.WM_CLOSE:
		o.open = false
		win.DestroyWindow(hwnd)
		return 0

	case win.WM_DESTROY:
		o.open = false
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// paint blits the packed-pixel buffer through a 32-bit top-down DIB
// section. The 0xAARRGGBB words are little-endian BGRA in memory, which
// is exactly the layout BI_RGB expects, so the copy is a straight move.
func (o *winOverlay) paint(hdc win.HDC) {
	if len(o.pix) < int(o.width)*int(o.height) {
		return
	}

	memDC := win.CreateCompatibleDC(hdc)
	defer win.DeleteDC(memDC)

	bmi := win.BITMAPINFO{
		BmiHeader: win.BITMAPINFOHEADER{
			BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
			BiWidth:       o.width,
			BiHeight:      -o.height, // top-down
			BiPlanes:      1,
			BiBitCount:    32,
			BiCompression: win.BI_RGB,
		},
	}

	var bits unsafe.Pointer
	hBitmap := win.CreateDIBSection(memDC, &bmi.BmiHeader, win.DIB_RGB_COLORS, &bits, 0, 0)
	if hBitmap == 0 {
		return
	}
	defer win.DeleteObject(win.HGDIOBJ(hBitmap))

	dst := unsafe.Slice((*uint32)(bits), int(o.width)*int(o.height))
	copy(dst, o.pix)

	old := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	win.BitBlt(hdc, 0, 0, o.width, o.height, memDC, 0, 0, win.SRCCOPY)
	win.SelectObject(memDC, old)
}

func asyncKeyDown(vk int32) bool {
	state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(state)&0x8000 != 0
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
