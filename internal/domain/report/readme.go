package report

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"
)

var readmeTemplate = template.Must(template.New("readme").Parse(`
========================================
WINDOWS XP ICONS - HIGH QUALITY ICO FORMAT
========================================

Total Icons Converted: {{.Success}}

QUALITY FEATURES:
-----------------
- Multiple icon sizes included (16x16 to 256x256)
- High-quality scaling algorithm (Catmull-Rom)
- Original quality preserved where possible
- Optimized for Windows 11/10/8/7/XP compatibility

ICON SIZES INCLUDED:
--------------------
Each ICO file contains multiple resolutions:
- 16x16 (Small icons, menus)
- 32x32 (Standard desktop icons)
- 48x48 (Large icons)
- 64x64 (Extra large icons)
- 128x128 (High-DPI displays)
- 256x256 (Maximum quality for modern displays)

USAGE:
------
These icons can now be used anywhere in Windows:
1. Desktop icons (Right-click > Properties > Change Icon)
2. Folder icons (Right-click folder > Properties > Customize)
3. Shortcut icons (Right-click shortcut > Properties > Change Icon)
4. Application icons (varies by application)

POPULAR ICONS:
--------------
- My Computer.ico
- Recycle Bin (empty).ico
- Recycle Bin (full).ico
- My Documents.ico
- My Network Places.ico
- Folder Closed.ico
- Folder Opened.ico
- Control Panel.ico
- Internet Explorer 6.ico
- Windows Media Player 10.ico
- Notepad.ico
- Calculator.ico
- Paint.ico

And 500+ more!

========================================
CONVERSION POWERED BY:
- Go + golang.org/x/image
- High-quality image processing
- Multi-resolution ICO support
========================================
`))

// RenderReadme fills the summary template. The success count is the only
// variable part.
func RenderReadme(success int) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTemplate.Execute(&buf, struct{ Success int }{success}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReadme renders the summary into dir/name and returns the path.
func WriteReadme(dir, name string, success int) (string, error) {
	content, err := RenderReadme(success)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
