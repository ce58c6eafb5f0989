package scenes

import (
	"fmt"
	"image/color"
	"time"

	"github.com/cbodonnell/tetris/client/fonts"
	"github.com/cbodonnell/tetris/client/input"
	"github.com/cbodonnell/tetris/pkg/game"
	"github.com/cbodonnell/tetris/pkg/game/constants"
	"github.com/cbodonnell/tetris/pkg/game/types"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/particles"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	// BoardX and BoardY place the top left corner of the board on screen
	BoardX = 20
	BoardY = 20
	// PanelX is the left edge of the side panel
	PanelX = 340

	ScreenWidth  = 600
	ScreenHeight = 640

	// NextBoxSize is the side of the next piece preview
	NextBoxSize = 120
)

var (
	backgroundColor = color.RGBA{R: 0x0F, G: 0x38, B: 0x0F, A: 0xFF}
	textColor       = color.RGBA{R: 0x9B, G: 0xBC, B: 0x0F, A: 0xFF}
	gridColor       = color.NRGBA{R: 155, G: 188, B: 15, A: 25}
	blockStroke     = color.NRGBA{R: 0, G: 0, B: 0, A: 77}
	blockHighlight  = color.NRGBA{R: 255, G: 255, B: 255, A: 51}
	overlayColor    = color.NRGBA{R: 0, G: 0, B: 0, A: 180}
	errorColor      = color.NRGBA{R: 0xFF, G: 0x60, B: 0x60, A: 0xFF}
)

// GhostAlpha is the opacity of the landing preview
const GhostAlpha = 0.3

// PlayScene draws a session and feeds it keyboard input. The high score form
// is an ebitenui overlay rebuilt whenever the form changes.
type PlayScene struct {
	session  *Session
	ui       *ebitenui.UI
	uiState  overlayState
	initials string
}

type overlayState struct {
	gameOver bool
	form     Form
}

var _ Scene = &PlayScene{}

func NewPlayScene(session *Session) *PlayScene {
	return &PlayScene{
		session: session,
	}
}

func (s *PlayScene) Init() error {
	s.session.Init()
	return nil
}

func (s *PlayScene) Destroy() error {
	s.ui = nil
	return nil
}

func (s *PlayScene) Update() error {
	now := time.Now()
	s.session.HandleInput(input.Poll(input.Keyboard), s.ui == nil && input.IsPositiveJustPressed(), now)
	s.session.Update(now)

	state := overlayState{
		gameOver: s.session.State().Status == types.StatusGameOver,
		form:     s.session.Form(),
	}
	if state != s.uiState {
		s.uiState = state
		s.renderUI()
	}
	if s.ui != nil {
		s.ui.Update()
	}
	return nil
}

func (s *PlayScene) renderUI() {
	if !s.uiState.gameOver {
		s.ui = nil
		s.initials = ""
		return
	}
	form := s.uiState.form

	buttonImage := &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.NRGBA{R: 0x30, G: 0x62, B: 0x30, A: 255}),
		Hover:    image.NewNineSliceColor(color.NRGBA{R: 0x8B, G: 0xAC, B: 0x0F, A: 255}),
		Pressed:  image.NewNineSliceColor(color.NRGBA{R: 0x9B, G: 0xBC, B: 0x0F, A: 255}),
		Disabled: image.NewNineSliceColor(color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 255}),
	}
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.NRGBA{R: 0xE0, G: 0xF8, B: 0xD0, A: 255},
		Disabled: color.NRGBA{R: 150, G: 150, B: 150, A: 255},
	}

	normalFontFace := fonts.NormalFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(12),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:   BoardY + 300,
				Left:  BoardX + 30,
				Right: ScreenWidth - (BoardX + constants.BoardWidth*constants.CellSize - 30),
			}))),
	)

	rowData := widget.WidgetOpts.LayoutData(widget.RowLayoutData{
		Position: widget.RowLayoutPositionCenter,
		Stretch:  true,
	})

	var initialsTextInput *widget.TextInput
	submitHandler := func(args interface{}) {
		s.session.SubmitInitials(initialsTextInput.GetText())
	}

	switch form.Status {
	case FormOpen, FormSubmitting:
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text("NEW HIGH SCORE!", normalFontFace, textColor),
			widget.TextOpts.Position(widget.TextPositionCenter, widget.TextPositionCenter),
			widget.TextOpts.WidgetOpts(rowData),
		))

		initialsTextInput = widget.NewTextInput(
			widget.TextInputOpts.WidgetOpts(rowData),
			widget.TextInputOpts.MobileInputMode("text"),
			widget.TextInputOpts.Image(&widget.TextInputImage{
				Idle:     image.NewNineSliceColor(color.NRGBA{R: 0x30, G: 0x62, B: 0x30, A: 255}),
				Disabled: image.NewNineSliceColor(color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 255}),
			}),
			widget.TextInputOpts.Face(normalFontFace),
			widget.TextInputOpts.Color(&widget.TextInputColor{
				Idle:          color.NRGBA{R: 0xE0, G: 0xF8, B: 0xD0, A: 255},
				Disabled:      color.NRGBA{R: 150, G: 150, B: 150, A: 255},
				Caret:         color.NRGBA{R: 0xE0, G: 0xF8, B: 0xD0, A: 255},
				DisabledCaret: color.NRGBA{R: 150, G: 150, B: 150, A: 255},
			}),
			widget.TextInputOpts.Padding(widget.NewInsetsSimple(5)),
			widget.TextInputOpts.CaretOpts(
				widget.CaretOpts.Size(normalFontFace, 2),
			),
			widget.TextInputOpts.Placeholder("AAA"),
			widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
				s.initials = args.InputText
			}),
		)
		initialsTextInput.SetText(s.initials)
		rootContainer.AddChild(initialsTextInput)

		submitButton := widget.NewButton(
			widget.ButtonOpts.WidgetOpts(rowData),
			widget.ButtonOpts.Image(buttonImage),
			widget.ButtonOpts.Text("Submit", normalFontFace, buttonTextColor),
			widget.ButtonOpts.TextPadding(widget.Insets{Left: 15, Right: 15, Top: 5, Bottom: 5}),
		)
		rootContainer.AddChild(submitButton)

		if form.Status == FormSubmitting {
			initialsTextInput.GetWidget().Disabled = true
			submitButton.GetWidget().Disabled = true
		} else {
			initialsTextInput.SubmitEvent.AddHandler(submitHandler)
			submitButton.ClickedEvent.AddHandler(submitHandler)
			initialsTextInput.Focus(true)
		}
	case FormSubmitted:
		saved := "Score saved!"
		if form.Rank > 0 {
			saved = fmt.Sprintf("Score saved! Rank #%d", form.Rank)
		}
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text(saved, normalFontFace, textColor),
			widget.TextOpts.Position(widget.TextPositionCenter, widget.TextPositionCenter),
			widget.TextOpts.WidgetOpts(rowData),
		))
	}

	if form.Message != "" {
		rootContainer.AddChild(widget.NewText(
			widget.TextOpts.Text(form.Message, fonts.SmallFont, errorColor),
			widget.TextOpts.WidgetOpts(rowData),
		))
	}

	playAgainButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(rowData),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text("Play Again", normalFontFace, buttonTextColor),
		widget.ButtonOpts.TextPadding(widget.Insets{Left: 15, Right: 15, Top: 5, Bottom: 5}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			log.Debug("Starting a new game")
			s.session.Restart(time.Now())
		}),
	)
	if form.Status == FormSubmitting {
		playAgainButton.GetWidget().Disabled = true
	}
	rootContainer.AddChild(playAgainButton)

	s.ui = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (s *PlayScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	state := s.session.State()
	s.drawBoard(screen, state)
	s.drawParticles(screen)
	s.drawPanel(screen, state)

	switch state.Status {
	case types.StatusMenu:
		drawOverlay(screen, "ULTIMATE TETRIS", "Press any key to start")
	case types.StatusPaused:
		drawOverlay(screen, "PAUSED", "Press P to resume")
	case types.StatusGameOver:
		drawOverlay(screen, "GAME OVER", fmt.Sprintf("Score: %d", state.Score))
	}

	if s.ui != nil {
		s.ui.Draw(screen)
	}
}

func (s *PlayScene) drawBoard(screen *ebiten.Image, state types.GameState) {
	cell := float32(constants.CellSize)
	width := float32(constants.BoardWidth) * cell
	height := float32(constants.BoardHeight) * cell

	for x := 0; x <= constants.BoardWidth; x++ {
		vector.StrokeLine(screen, BoardX+float32(x)*cell, BoardY, BoardX+float32(x)*cell, BoardY+height, 1, gridColor, false)
	}
	for y := 0; y <= constants.BoardHeight; y++ {
		vector.StrokeLine(screen, BoardX, BoardY+float32(y)*cell, BoardX+width, BoardY+float32(y)*cell, 1, gridColor, false)
	}
	vector.StrokeRect(screen, BoardX, BoardY, width, height, 2, textColor, false)

	for y, row := range state.Board {
		for x, c := range row {
			if c.Filled {
				drawBlock(screen, BoardX+float32(x)*cell, BoardY+float32(y)*cell, cell, c.Color, 1)
			}
		}
	}

	if state.Status != types.StatusPlaying && state.Status != types.StatusPaused {
		return
	}

	ghost := game.Ghost(state.Active, &state.Board)
	drawPiece(screen, ghost, BoardX, BoardY, cell, GhostAlpha)
	drawPiece(screen, state.Active, BoardX, BoardY, cell, 1)
}

func (s *PlayScene) drawParticles(screen *ebiten.Image) {
	s.session.Particles().Each(func(p *particles.Particle) {
		clr := color.NRGBA{R: p.Color.R, G: p.Color.G, B: p.Color.B, A: uint8(255 * p.Alpha)}
		x := BoardX + float32(p.Position.X) - float32(p.Size)/2
		y := BoardY + float32(p.Position.Y) - float32(p.Size)/2
		vector.DrawFilledRect(screen, x, y, float32(p.Size), float32(p.Size), clr, false)
	})
}

func (s *PlayScene) drawPanel(screen *ebiten.Image, state types.GameState) {
	y := BoardY + 20
	line := func(face font.Face, str string, spacing int) {
		text.Draw(screen, str, face, PanelX, y, textColor)
		y += spacing
	}

	line(fonts.NormalFont, fmt.Sprintf("Score: %d", state.Score), 26)
	line(fonts.NormalFont, fmt.Sprintf("Level: %d", state.Level+1), 26)
	line(fonts.NormalFont, fmt.Sprintf("Lines: %d", state.Lines), 30)

	line(fonts.NormalFont, "Next", 8)
	vector.StrokeRect(screen, PanelX, float32(y), NextBoxSize, NextBoxSize, 2, textColor, false)
	if state.Status != types.StatusMenu {
		drawNext(screen, state.Next, PanelX, float32(y))
	}
	y += NextBoxSize + 30

	line(fonts.NormalFont, "High Scores", 20)
	leaderboard := s.session.Leaderboard()
	if len(leaderboard) == 0 {
		line(fonts.SmallFont, "No scores yet!", 18)
	}
	for i, score := range leaderboard {
		if i == constants.LeaderboardSize {
			break
		}
		line(fonts.SmallFont, fmt.Sprintf("%2d. %s %8d", i+1, score.Initials, score.Score), 18)
	}
	y += 12

	line(fonts.NormalFont, "Controls", 20)
	for _, help := range []string{
		"Left/Right  move",
		"Down        step down",
		"Up/Z        rotate",
		"Space       drop",
		"P           pause",
		"M  +/-      audio",
	} {
		line(fonts.SmallFont, help, 16)
	}
	y += 12

	audio := s.session.Audio()
	volume := fmt.Sprintf("Audio: %d%%", audio.Volume())
	if audio.Muted() {
		volume = "Audio: muted"
	}
	line(fonts.NormalFont, volume, 20)
}

// drawNext centers the next piece's spawn rotation in the preview box.
func drawNext(screen *ebiten.Image, next types.PieceType, x, y float32) {
	cell := float32(constants.CellSize) * 0.8
	cells := types.ShapeFor(next, 0)
	minX, minY, maxX, maxY := cells[0].X, cells[0].Y, cells[0].X, cells[0].Y
	for _, c := range cells {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	w := float32(maxX-minX+1) * cell
	h := float32(maxY-minY+1) * cell
	originX := x + (NextBoxSize-w)/2 - float32(minX)*cell
	originY := y + (NextBoxSize-h)/2 - float32(minY)*cell
	for _, c := range cells {
		drawBlock(screen, originX+float32(c.X)*cell, originY+float32(c.Y)*cell, cell, next.Color(), 1)
	}
}

// drawPiece draws the visible cells of a piece; rows above the board are hidden.
func drawPiece(screen *ebiten.Image, piece types.Piece, x, y, cell float32, alpha float64) {
	for _, c := range piece.Cells() {
		if c.Y < 0 {
			continue
		}
		drawBlock(screen, x+float32(c.X)*cell, y+float32(c.Y)*cell, cell, piece.Type.Color(), alpha)
	}
}

func drawBlock(screen *ebiten.Image, x, y, size float32, c types.Color, alpha float64) {
	r, g, b := c.RGB()
	fill := color.NRGBA{R: r, G: g, B: b, A: uint8(255 * alpha)}
	vector.DrawFilledRect(screen, x, y, size, size, fill, false)
	vector.DrawFilledRect(screen, x+2, y+2, size-4, size/4, scaleAlpha(blockHighlight, alpha), false)
	vector.StrokeRect(screen, x+1, y+1, size-2, size-2, 2, scaleAlpha(blockStroke, alpha), false)
}

func scaleAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(float64(c.A) * alpha)
	return c
}

// drawOverlay dims the board and centers a title and subtitle over it.
func drawOverlay(screen *ebiten.Image, title, subtitle string) {
	width := constants.BoardWidth * constants.CellSize
	height := constants.BoardHeight * constants.CellSize
	vector.DrawFilledRect(screen, BoardX, BoardY, float32(width), float32(height), overlayColor, false)

	centerX := BoardX + width/2
	titleBounds := text.BoundString(fonts.TitleFont, title)
	text.Draw(screen, title, fonts.TitleFont, centerX-titleBounds.Dx()/2, BoardY+220, textColor)

	subtitleBounds := text.BoundString(fonts.NormalFont, subtitle)
	text.Draw(screen, subtitle, fonts.NormalFont, centerX-subtitleBounds.Dx()/2, BoardY+260, textColor)
}
