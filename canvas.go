package main

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"bendterm/bend"
	"bendterm/scene"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"seehuhn.de/go/geom/vec"
)

// Canvas is the content model of one chart. Boxes and connectors are stored
// here; the scene mirrors them for routing and hit-testing.
type Canvas struct {
	boxes      []Box
	connectors []Connector
	nextBoxID  int
	nextConnID scene.ConnectorID
	scene      *scene.Scene
}

type Box struct {
	X      int
	Y      int
	Width  int
	Height int
	Lines  []string
	ID     int
}

func (b *Box) GetText() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Box) SetText(text string) {
	b.Lines = strings.Split(text, "\n")
	b.updateSize()
}

func (b *Box) updateSize() {
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
	}

	maxWidth := minBoxWidth
	for _, line := range b.Lines {
		if len(line)+2 > maxWidth {
			maxWidth = len(line) + 2
		}
	}
	b.Width = maxWidth
	b.Height = max(len(b.Lines)+2, minBoxHeight)
}

func (b *Box) center() vec.Vec2 {
	return vec.Vec2{
		X: float64(b.X) + float64(b.Width-1)/2,
		Y: float64(b.Y) + float64(b.Height-1)/2,
	}
}

// Connector is the stored form of a connector: its explicit bend points,
// the first and last of which are the endpoints. Attached endpoints carry the
// scene.ShapeID of their box as anchorage.
type Connector struct {
	ID      scene.ConnectorID
	Router  scene.RouterKind
	Points  []bend.BendPoint
	Hints   bend.Hints
	ArrowTo bool

	view *scene.Connector
}

func NewCanvas() *Canvas {
	return &Canvas{
		boxes:      make([]Box, 0),
		connectors: make([]Connector, 0),
		nextConnID: 1,
		scene:      scene.New(),
	}
}

// SetPan keeps the scene frame in line with the buffer's pan offset.
func (c *Canvas) SetPan(panX, panY int) {
	c.scene.SetPan(float64(panX), float64(panY))
}

func (c *Canvas) Scene() *scene.Scene {
	return c.scene
}

func (c *Canvas) AddBox(x, y int, text string) int {
	box := Box{X: x, Y: y, ID: c.nextBoxID}
	box.SetText(text)
	c.RestoreBox(box)
	return box.ID
}

// RestoreBox adds a box with a known ID, for undo and file loading.
func (c *Canvas) RestoreBox(box Box) {
	c.boxes = append(c.boxes, box)
	c.nextBoxID = max(c.nextBoxID, box.ID+1)
	c.syncShape(box)
	c.scene.Refresh()
}

func (c *Canvas) syncShape(box Box) {
	id := scene.ShapeID(box.ID)
	lo := vec.Vec2{X: float64(box.X), Y: float64(box.Y)}
	hi := vec.Vec2{X: float64(box.X + box.Width - 1), Y: float64(box.Y + box.Height - 1)}
	if sh := c.scene.Shape(id); sh != nil {
		sh.Min, sh.Max = lo, hi
		return
	}
	c.scene.AddShape(&scene.Shape{ID: id, Min: lo, Max: hi})
}

func (c *Canvas) Box(id int) *Box {
	for i := range c.boxes {
		if c.boxes[i].ID == id {
			return &c.boxes[i]
		}
	}
	return nil
}

// GetBoxAt returns the ID of the topmost box containing the world cell (x, y),
// or -1.
func (c *Canvas) GetBoxAt(x, y int) int {
	for i := len(c.boxes) - 1; i >= 0; i-- {
		box := c.boxes[i]
		if x >= box.X && x < box.X+box.Width && y >= box.Y && y < box.Y+box.Height {
			return box.ID
		}
	}
	return -1
}

// DeleteBox removes a box together with the connectors attached to it and
// returns what was removed.
func (c *Canvas) DeleteBox(id int) (DeleteBoxData, bool) {
	box := c.Box(id)
	if box == nil {
		return DeleteBoxData{}, false
	}
	data := DeleteBoxData{Box: *box}
	for _, conn := range slices.Clone(c.connectors) {
		if conn.attachedTo(id) {
			if removed, ok := c.RemoveConnector(conn.ID); ok {
				data.Connectors = append(data.Connectors, removed)
			}
		}
	}
	c.boxes = slices.DeleteFunc(c.boxes, func(b Box) bool { return b.ID == id })
	c.scene.RemoveShape(scene.ShapeID(id))
	c.scene.Refresh()
	return data, true
}

func (conn *Connector) attachedTo(boxID int) bool {
	for _, bp := range conn.Points {
		if bp.Anchorage == scene.ShapeID(boxID) {
			return true
		}
	}
	return false
}

// MoveBox moves a box and drags the endpoints attached to it along.
func (c *Canvas) MoveBox(id int, deltaX, deltaY int) {
	box := c.Box(id)
	if box == nil {
		return
	}
	box.X += deltaX
	box.Y += deltaY
	c.syncShape(*box)

	d := vec.Vec2{X: float64(deltaX), Y: float64(deltaY)}
	for i := range c.connectors {
		conn := &c.connectors[i]
		if !conn.attachedTo(id) {
			continue
		}
		view := c.View(conn.ID)
		hints := view.Hints()
		for j, bp := range conn.Points {
			if bp.Anchorage != scene.ShapeID(id) {
				continue
			}
			conn.Points[j].Position = bp.Position.Add(d)
			switch j {
			case 0:
				hints.Start = shifted(hints.Start, d)
			case len(conn.Points) - 1:
				hints.End = shifted(hints.End, d)
			}
		}
		conn.Hints = hints
		view.SetBendPoints(conn.Points)
		view.SetHints(hints)
	}
	c.scene.Refresh()
}

func shifted(p *vec.Vec2, d vec.Vec2) *vec.Vec2 {
	if p == nil {
		return nil
	}
	q := p.Add(d)
	return &q
}

// AddConnector connects two boxes centre to centre.
func (c *Canvas) AddConnector(fromID, toID int, kind scene.RouterKind) (Connector, error) {
	from, to := c.Box(fromID), c.Box(toID)
	if from == nil || to == nil {
		return Connector{}, fmt.Errorf("no box with ID %d or %d", fromID, toID)
	}
	if fromID == toID {
		return Connector{}, fmt.Errorf("cannot connect box %d to itself", fromID)
	}
	conn := Connector{
		ID:     c.nextConnID,
		Router: kind,
		Points: []bend.BendPoint{
			bend.Attached(from.center(), scene.ShapeID(fromID)),
			bend.Attached(to.center(), scene.ShapeID(toID)),
		},
		ArrowTo: true,
	}
	c.RestoreConnector(conn)
	return c.Snapshot(conn.ID), nil
}

// RestoreConnector adds a connector with a known ID, for undo and file
// loading. A connector removed from this canvas gets its old view back.
func (c *Canvas) RestoreConnector(conn Connector) {
	conn.Points = slices.Clone(conn.Points)
	if conn.ID >= c.nextConnID {
		c.nextConnID = conn.ID + 1
	}
	if conn.view != nil && c.scene.Connector(conn.ID) == nil {
		conn.view.SetRouter(scene.NewRouter(conn.Router))
		conn.view.SetBendPoints(conn.Points)
		conn.view.SetHints(conn.Hints)
		c.scene.Attach(conn.view)
	} else {
		conn.view = c.scene.AddConnector(conn.ID, scene.NewRouter(conn.Router), conn.Points)
		conn.view.SetHints(conn.Hints)
	}
	c.connectors = append(c.connectors, conn)
}

func (c *Canvas) RemoveConnector(id scene.ConnectorID) (Connector, bool) {
	conn := c.Connector(id)
	if conn == nil {
		return Connector{}, false
	}
	removed := c.Snapshot(id)
	c.connectors = slices.DeleteFunc(c.connectors, func(x Connector) bool { return x.ID == id })
	c.scene.RemoveConnector(id)
	return removed, true
}

func (c *Canvas) Connector(id scene.ConnectorID) *Connector {
	for i := range c.connectors {
		if c.connectors[i].ID == id {
			return &c.connectors[i]
		}
	}
	return nil
}

// View returns the routed scene connector for id.
func (c *Canvas) View(id scene.ConnectorID) *scene.Connector {
	return c.scene.Connector(id)
}

// Snapshot returns the stored connector with the hints of its view.
func (c *Canvas) Snapshot(id scene.ConnectorID) Connector {
	conn := c.Connector(id)
	if conn == nil {
		return Connector{}
	}
	res := *conn
	res.Points = slices.Clone(conn.Points)
	if view := c.View(id); view != nil {
		res.Hints = view.Hints()
	}
	return res
}

func (c *Canvas) SetRouter(id scene.ConnectorID, kind scene.RouterKind) {
	conn := c.Connector(id)
	if conn == nil {
		return
	}
	conn.Router = kind
	if view := c.View(id); view != nil {
		view.SetRouter(scene.NewRouter(kind))
	}
}

// ConnectorAt returns the topmost connector with a segment within
// pickTolerance of the world position p.
func (c *Canvas) ConnectorAt(p vec.Vec2) *scene.Connector {
	conns := c.scene.Connectors()
	for i := len(conns) - 1; i >= 0; i-- {
		if _, ok := conns[i].SegmentAt(p, pickTolerance); ok {
			return conns[i]
		}
	}
	return nil
}

// Content returns the content-model side of connector id for the editor.
func (c *Canvas) Content(id scene.ConnectorID) bend.ContentPart {
	return connectorContent{canvas: c, id: id}
}

type connectorContent struct {
	canvas *Canvas
	id     scene.ConnectorID
}

func (p connectorContent) ContentBendPoints() []bend.BendPoint {
	if conn := p.canvas.Connector(p.id); conn != nil {
		return slices.Clone(conn.Points)
	}
	return nil
}

func (p connectorContent) SetContentBendPoints(points []bend.BendPoint) {
	if conn := p.canvas.Connector(p.id); conn != nil {
		conn.Points = slices.Clone(points)
		if view := p.canvas.View(p.id); view != nil {
			conn.Hints = view.Hints()
		}
	}
}

// renderOptions marks the connector being edited.
type renderOptions struct {
	selectedBox int
	editing     scene.ConnectorID
	selection   []int
}

func cell(p vec.Vec2) point {
	return point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

func (c *Canvas) Render(width, height int, opts renderOptions) []string {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// connectors first so that boxes hide the parts inside them
	for _, view := range c.scene.Connectors() {
		c.drawConnector(canvas, view)
	}
	for _, box := range c.boxes {
		tl := cell(c.scene.ToScene(vec.Vec2{X: float64(box.X), Y: float64(box.Y)}))
		c.drawBoxAt(canvas, box, box.ID == opts.selectedBox, tl.X, tl.Y)
	}
	for _, conn := range c.connectors {
		if conn.ArrowTo {
			c.drawArrow(canvas, c.View(conn.ID))
		}
	}
	for _, view := range c.scene.Connectors() {
		var selection []int
		if view.ID == opts.editing {
			selection = opts.selection
		}
		c.drawMarkers(canvas, view, view.ID == opts.editing, selection)
	}

	result := make([]string, height)
	for i, row := range canvas {
		result[i] = string(row)
	}
	return result
}

func (c *Canvas) drawBoxAt(canvas [][]rune, box Box, isSelected bool, boxX, boxY int) {
	corner, horizontal, vertical := '+', '-', '|'
	if isSelected {
		corner, horizontal, vertical = '#', '#', '#'
	}

	for y := boxY; y < boxY+box.Height; y++ {
		for x := boxX; x < boxX+box.Width; x++ {
			if !isValidPos(canvas, x, y) {
				continue
			}
			top := y == boxY || y == boxY+box.Height-1
			side := x == boxX || x == boxX+box.Width-1
			switch {
			case top && side:
				canvas[y][x] = corner
			case top:
				canvas[y][x] = horizontal
			case side:
				canvas[y][x] = vertical
			default:
				canvas[y][x] = ' '
			}
		}
	}

	for lineIdx, line := range box.Lines {
		textY := boxY + 1 + lineIdx
		if textY >= boxY+box.Height-1 {
			break
		}
		for i, char := range []rune(line) {
			textX := boxX + 1 + i
			if textX >= boxX+box.Width-1 {
				break
			}
			if isValidPos(canvas, textX, textY) {
				canvas[textY][textX] = char
			}
		}
	}
}

func (c *Canvas) drawConnector(canvas [][]rune, view *scene.Connector) {
	anchors := view.Anchors()
	for i := 0; i+1 < len(anchors); i++ {
		from := cell(view.LocalToScene(anchors[i].Position))
		to := cell(view.LocalToScene(anchors[i+1].Position))
		drawLine(canvas, from, to)
	}
}

// drawLine draws a segment with Bresenham's algorithm. Axis-aligned segments
// use '-' and '|', others a slash matching their slope.
func drawLine(canvas [][]rune, from, to point) {
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}

	ch := '-'
	switch {
	case dx == 0:
		ch = '|'
	case dy == 0:
	case sx == sy:
		ch = '\\'
	default:
		ch = '/'
	}

	x, y := from.X, from.Y
	err := dx + dy
	for {
		if isValidPos(canvas, x, y) {
			switch canvas[y][x] {
			case ' ':
				canvas[y][x] = ch
			case '-', '|', '/', '\\':
				if canvas[y][x] != ch {
					canvas[y][x] = '+'
				}
			}
		}
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// drawArrow puts an arrow head in the cell before the end of the connector.
func (c *Canvas) drawArrow(canvas [][]rune, view *scene.Connector) {
	if view == nil {
		return
	}
	anchors := view.Anchors()
	if len(anchors) < 2 {
		return
	}
	end := cell(view.LocalToScene(anchors[len(anchors)-1].Position))
	prev := end
	for i := len(anchors) - 2; i >= 0 && prev == end; i-- {
		prev = cell(view.LocalToScene(anchors[i].Position))
	}
	if prev == end {
		return
	}

	dx, dy := end.X-prev.X, end.Y-prev.Y
	var head rune
	var at point
	if abs(dx) >= abs(dy) {
		head, at = '>', point{X: end.X - sign(dx), Y: end.Y}
		if dx < 0 {
			head = '<'
		}
	} else {
		head, at = 'v', point{X: end.X, Y: end.Y - sign(dy)}
		if dy < 0 {
			head = '^'
		}
	}
	if isValidPos(canvas, at.X, at.Y) {
		canvas[at.Y][at.X] = head
	}
}

// drawMarkers shows the bend points of a connector: 'o' for explicit and '+'
// for router-inserted ones. The connector being edited also shows its
// endpoints, and its selected points as '*'.
func (c *Canvas) drawMarkers(canvas [][]rune, view *scene.Connector, editing bool, selection []int) {
	anchors := view.Anchors()
	explicit := 0
	for i, a := range anchors {
		p := cell(view.LocalToScene(a.Position))
		endpoint := i == 0 || i == len(anchors)-1
		var mark rune
		switch {
		case a.IsImplicit():
			mark = '+'
		case slices.Contains(selection, explicit):
			mark = '*'
		case endpoint && editing:
			mark = '@'
		case !endpoint:
			mark = 'o'
		}
		if !a.IsImplicit() {
			explicit++
		}
		if mark != 0 && isValidPos(canvas, p.X, p.Y) {
			canvas[p.Y][p.X] = mark
		}
	}
}

func isValidPos(canvas [][]rune, x, y int) bool {
	return y >= 0 && y < len(canvas) && x >= 0 && x < len(canvas[y])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

func (c *Canvas) SaveToFile(filename string, panX, panY int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	c.encode(w, panX, panY)
	return w.Flush()
}

func (c *Canvas) encode(w io.Writer, panX, panY int) {
	fmt.Fprintf(w, "BENDTERM\n")
	fmt.Fprintf(w, "BOXES:%d\n", len(c.boxes))
	for _, box := range c.boxes {
		encodedText := strings.ReplaceAll(box.GetText(), "\n", "\\n")
		fmt.Fprintf(w, "%d,%d,%d,%d,%d,%s\n", box.ID, box.X, box.Y, box.Width, box.Height, encodedText)
	}

	fmt.Fprintf(w, "CONNECTORS:%d\n", len(c.connectors))
	for _, conn := range c.connectors {
		conn = c.Snapshot(conn.ID)
		points := make([]string, len(conn.Points))
		for i, bp := range conn.Points {
			anchorage := "-"
			if id, ok := bp.Anchorage.(scene.ShapeID); ok {
				anchorage = strconv.Itoa(int(id))
			}
			points[i] = fmt.Sprintf("%s:%s:%s", formatCoord(bp.Position.X), formatCoord(bp.Position.Y), anchorage)
		}
		arrow := 0
		if conn.ArrowTo {
			arrow = 1
		}
		fmt.Fprintf(w, "%d,%s,%d|%s|%s;%s\n", conn.ID, conn.Router, arrow,
			strings.Join(points, ","), formatHint(conn.Hints.Start), formatHint(conn.Hints.End))
	}

	fmt.Fprintf(w, "PAN:%d,%d\n", panX, panY)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatHint(p *vec.Vec2) string {
	if p == nil {
		return "-"
	}
	return formatCoord(p.X) + ":" + formatCoord(p.Y)
}

// LoadFromFile replaces the canvas with the contents of filename and returns
// the saved pan offset.
func (c *Canvas) LoadFromFile(filename string) (int, int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()
	return c.decode(file)
}

func (c *Canvas) decode(r io.Reader) (int, int, error) {
	*c = *NewCanvas()

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() || scanner.Text() != "BENDTERM" {
		return 0, 0, fmt.Errorf("invalid file format")
	}

	boxCount, err := readCount(scanner, "BOXES:")
	if err != nil {
		return 0, 0, err
	}
	for i := 0; i < boxCount; i++ {
		if !scanner.Scan() {
			return 0, 0, fmt.Errorf("missing box data")
		}
		box, err := parseBox(scanner.Text())
		if err != nil {
			return 0, 0, fmt.Errorf("box %d: %w", i, err)
		}
		c.RestoreBox(box)
	}

	connCount, err := readCount(scanner, "CONNECTORS:")
	if err != nil {
		return 0, 0, err
	}
	for i := 0; i < connCount; i++ {
		if !scanner.Scan() {
			return 0, 0, fmt.Errorf("missing connector data")
		}
		conn, err := parseConnector(scanner.Text())
		if err != nil {
			return 0, 0, fmt.Errorf("connector %d: %w", i, err)
		}
		c.RestoreConnector(conn)
	}

	panX, panY := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "PAN:") {
			parts := strings.Split(strings.TrimPrefix(line, "PAN:"), ",")
			if len(parts) >= 2 {
				panX, _ = strconv.Atoi(parts[0])
				panY, _ = strconv.Atoi(parts[1])
			}
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	c.SetPan(panX, panY)
	return panX, panY, nil
}

func readCount(scanner *bufio.Scanner, header string) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("missing %q header", header)
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, header) {
		return 0, fmt.Errorf("expected %q, got %q", header, line)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(line, header))
	if err != nil {
		return 0, fmt.Errorf("invalid count in %q: %w", line, err)
	}
	return n, nil
}

func parseBox(line string) (Box, error) {
	parts := strings.SplitN(line, ",", 6)
	if len(parts) != 6 {
		return Box{}, fmt.Errorf("invalid box format %q", line)
	}
	var nums [5]int
	for i := range nums {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return Box{}, fmt.Errorf("invalid box field %q: %w", parts[i], err)
		}
		nums[i] = n
	}
	box := Box{ID: nums[0], X: nums[1], Y: nums[2]}
	box.SetText(strings.ReplaceAll(parts[5], "\\n", "\n"))
	box.Width = max(nums[3], box.Width)
	box.Height = max(nums[4], box.Height)
	return box, nil
}

func parseConnector(line string) (Connector, error) {
	sections := strings.Split(line, "|")
	if len(sections) != 3 {
		return Connector{}, fmt.Errorf("invalid connector format %q", line)
	}

	head := strings.Split(sections[0], ",")
	if len(head) != 3 {
		return Connector{}, fmt.Errorf("invalid connector header %q", sections[0])
	}
	id, err := strconv.Atoi(head[0])
	if err != nil {
		return Connector{}, fmt.Errorf("invalid connector ID: %w", err)
	}
	conn := Connector{
		ID:      scene.ConnectorID(id),
		Router:  scene.KindOf(scene.NewRouter(scene.RouterKind(head[1]))),
		ArrowTo: head[2] == "1",
	}

	conn.Points, err = parseBendPoints(sections[1])
	if err != nil {
		return Connector{}, err
	}
	if len(conn.Points) < 2 {
		return Connector{}, fmt.Errorf("connector %d has %d bend points", id, len(conn.Points))
	}

	hints := strings.Split(sections[2], ";")
	if len(hints) != 2 {
		return Connector{}, fmt.Errorf("invalid hints %q", sections[2])
	}
	if conn.Hints.Start, err = parseHint(hints[0]); err != nil {
		return Connector{}, err
	}
	if conn.Hints.End, err = parseHint(hints[1]); err != nil {
		return Connector{}, err
	}
	return conn, nil
}

// parseBendPoints reads "x:y:anchorage" items separated by commas, where the
// anchorage is a box ID or "-" for a free point.
func parseBendPoints(s string) ([]bend.BendPoint, error) {
	var points []bend.BendPoint
	for _, item := range strings.Split(s, ",") {
		fields := strings.Split(item, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid bend point %q", item)
		}
		p, err := parseVec(fields[0], fields[1])
		if err != nil {
			return nil, err
		}
		if fields[2] == "-" {
			points = append(points, bend.Static(p))
			continue
		}
		boxID, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid anchorage %q: %w", fields[2], err)
		}
		points = append(points, bend.Attached(p, scene.ShapeID(boxID)))
	}
	return points, nil
}

func parseHint(s string) (*vec.Vec2, error) {
	if s == "-" {
		return nil, nil
	}
	fields := strings.Split(s, ":")
	if len(fields) != 2 {
		return nil, fmt.Errorf("invalid hint %q", s)
	}
	p, err := parseVec(fields[0], fields[1])
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func parseVec(xs, ys string) (vec.Vec2, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid coordinate %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid coordinate %q: %w", ys, err)
	}
	return vec.Vec2{X: x, Y: y}, nil
}

func (c *Canvas) ExportToPNG(filename string) error {
	if len(c.boxes) == 0 && len(c.connectors) == 0 {
		return fmt.Errorf("nothing to export")
	}

	charWidth := 8.0
	charHeight := 16.0

	minP := vec.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	maxP := vec.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	extend := func(p vec.Vec2) {
		minP = vec.Vec2{X: math.Min(minP.X, p.X), Y: math.Min(minP.Y, p.Y)}
		maxP = vec.Vec2{X: math.Max(maxP.X, p.X), Y: math.Max(maxP.Y, p.Y)}
	}
	for _, box := range c.boxes {
		extend(vec.Vec2{X: float64(box.X), Y: float64(box.Y)})
		extend(vec.Vec2{X: float64(box.X + box.Width), Y: float64(box.Y + box.Height)})
	}
	for _, view := range c.scene.Connectors() {
		for _, p := range view.Points() {
			extend(p)
		}
	}

	padding := 2.0
	minP = minP.Sub(vec.Vec2{X: padding, Y: padding})
	maxP = maxP.Add(vec.Vec2{X: padding, Y: padding})

	imageWidth := int((maxP.X - minP.X) * charWidth)
	imageHeight := int((maxP.Y - minP.Y) * charHeight)
	toPixel := func(p vec.Vec2) (float64, float64) {
		return (p.X - minP.X) * charWidth, (p.Y - minP.Y) * charHeight
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, conn := range c.connectors {
		c.drawConnectorPNG(dc, c.View(conn.ID), conn.ArrowTo, toPixel)
	}
	for _, box := range c.boxes {
		c.drawBoxPNG(dc, box, toPixel, charWidth, charHeight)
	}

	return dc.SavePNG(filename)
}

func (c *Canvas) drawConnectorPNG(dc *gg.Context, view *scene.Connector, arrow bool, toPixel func(vec.Vec2) (float64, float64)) {
	if view == nil {
		return
	}
	anchors := view.Anchors()
	if len(anchors) < 2 {
		return
	}

	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	for i := 0; i+1 < len(anchors); i++ {
		x1, y1 := toPixel(anchors[i].Position)
		x2, y2 := toPixel(anchors[i+1].Position)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	// explicit bend points as dots, router elbows as small squares
	for i := 1; i+1 < len(anchors); i++ {
		x, y := toPixel(anchors[i].Position)
		if anchors[i].IsImplicit() {
			dc.DrawRectangle(x-1.5, y-1.5, 3, 3)
		} else {
			dc.DrawCircle(x, y, 2.5)
		}
		dc.Fill()
	}

	if arrow {
		fx, fy := toPixel(anchors[len(anchors)-2].Position)
		tx, ty := toPixel(anchors[len(anchors)-1].Position)
		drawArrowPNG(dc, fx, fy, tx, ty)
	}
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dir := vec.Vec2{X: tx - fx, Y: ty - fy}
	if dir.Length() < 0.1 {
		return
	}
	dir = dir.Normalize()

	arrowSize := 6.0
	arrowAngle := 0.5
	side := dir.Rot90().Mul(arrowSize * arrowAngle)
	base := vec.Vec2{X: tx, Y: ty}.Sub(dir.Mul(arrowSize))

	dc.MoveTo(tx, ty)
	dc.LineTo(base.X+side.X, base.Y+side.Y)
	dc.LineTo(base.X-side.X, base.Y-side.Y)
	dc.ClosePath()
	dc.Fill()
}

func (c *Canvas) drawBoxPNG(dc *gg.Context, box Box, toPixel func(vec.Vec2) (float64, float64), charWidth, charHeight float64) {
	x, y := toPixel(vec.Vec2{X: float64(box.X), Y: float64(box.Y)})
	width := float64(box.Width-1) * charWidth
	height := float64(box.Height-1) * charHeight

	dc.SetColor(color.White)
	dc.DrawRectangle(x, y, width, height)
	dc.Fill()
	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	dc.DrawRectangle(x, y, width, height)
	dc.Stroke()

	textY := y + charHeight
	for i, line := range box.Lines {
		dc.DrawString(line, x+charWidth, textY+float64(i)*charHeight)
	}
}
