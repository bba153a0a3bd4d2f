package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/movegen-backend/internal/chess"
	"github.com/benbeisheim/movegen-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*client // playerID -> connection
	mu          sync.RWMutex
}

// client serializes writes to one websocket.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg ws.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
}

type GameState struct {
	ID             string         `json:"id"`
	Sound          string         `json:"sound"`
	Board          *BoardState    `json:"boardState"`
	FEN            string         `json:"fen"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *string        `json:"resolve"`
	Players        Players        `json:"players"`
	LastMove       *SimpleMove    `json:"lastMove"`
}

// CapturedPieces lists what each side has taken.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func NewGame(id string) *Game {
	g, _ := NewGameFromFEN(id, StartFEN)
	return g
}

func NewGameFromFEN(id, fen string) (*Game, error) {
	board, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := board.Validate(context.Background()); err != nil {
		return nil, err
	}
	return RestoreGame(GameState{
		ID:             id,
		Board:          board,
		MoveHistory:    make([]Move, 0),
		CapturedPieces: newCapturedPieces(),
	}), nil
}

// RestoreGame rebuilds a game from a saved state.
func RestoreGame(state GameState) *Game {
	if state.Board == nil {
		state.Board = newBoard()
	}
	state.FEN = state.Board.FEN()
	state.IsCheck = state.Board.InCheck(state.Board.ToMove)
	return &Game{
		ID:          state.ID,
		state:       state,
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*client),
	}
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
}

func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.state.Players.ColorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []chess.Color{chess.White, chess.Black} {
		seat := g.state.Players.seat(color)
		if seat.ID == "" {
			*seat = ClientPlayer{ID: playerID, Color: color}
			log.Infow("player seated", "game", g.ID, "player", playerID, "color", color)
			return color, nil
		}
	}
	return chess.NoColor, ErrGameFull
}

// GetState returns a copy that shares nothing mutable with the game.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	s := g.state
	s.Board = g.state.Board.Clone()
	s.MoveHistory = append([]Move(nil), g.state.MoveHistory...)
	s.CapturedPieces = CapturedPieces{
		White: append([]chess.Piece{}, g.state.CapturedPieces.White...),
		Black: append([]chess.Piece{}, g.state.CapturedPieces.Black...),
	}
	return s
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.state.Players.ColorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// LegalMoves lists the legal moves of the piece on from.
func (g *Game) LegalMoves(from chess.Square) ([]chess.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Board.LegalMoves(from)
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	return g.CommitMove(playerID, move, nil)
}

// CommitMove plays move and passes the new state to commit before anyone
// sees it. If commit fails the move is undone and its error returned.
func (g *Game) CommitMove(playerID string, move WSMove, commit func(GameState) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("making move", "game", g.ID, "player", playerID, "move", move)

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.state.Players.ColorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.state.Board.ToMove {
		return ErrNotYourTurn
	}

	m, err := g.validateMove(move)
	if err != nil {
		return err
	}
	before := g.snapshot()
	g.executeMove(m)

	if commit != nil {
		if err := commit(g.snapshot()); err != nil {
			g.state = before
			log.Warnw("move rolled back", "game", g.ID, "move", m.String(), "err", err)
			return err
		}
	}

	go g.broadcastState()
	return nil
}

// validateMove resolves the request to one of the legal moves.
func (g *Game) validateMove(move WSMove) (chess.Move, error) {
	from, to, promo, err := move.parse()
	if err != nil {
		return chess.Move{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	piece, ok := g.state.Board.Board.Get(from)
	if !ok || piece.Color != g.state.Board.ToMove {
		return chess.Move{}, ErrNoPiece
	}

	legal, err := g.state.Board.LegalMoves(from)
	if err != nil {
		return chess.Move{}, err
	}
	for _, m := range legal {
		if m.To != to {
			continue
		}
		if !m.IsPromotion() {
			return m, nil
		}
		if m.Promotion == promo || (promo == chess.NoKind && m.Promotion == chess.Queen) {
			return m, nil
		}
	}
	return chess.Move{}, ErrIllegalMove
}

func (g *Game) executeMove(m chess.Move) {
	before := g.state.Board.Clone()
	mover := before.ToMove

	captured := g.state.Board.apply(m)
	ply := Ply{
		Piece:         m.Mover,
		From:          m.From,
		To:            m.To,
		CapturedPiece: captured,
		Promotion:     m.Promotion,
	}
	if m.Event == chess.EventCastle {
		rookFrom, rookTo := castleRookSquares(m)
		ply.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
	}
	if captured != nil {
		switch mover {
		case chess.White:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, *captured)
		case chess.Black:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, *captured)
		}
	}

	g.state.IsCheck = g.state.Board.InCheck(g.state.Board.ToMove)
	replies, err := g.state.Board.AllLegalMoves(context.Background())
	g.state.Resolve = nil
	switch {
	case err != nil:
		// no result can be decided without the replies
		log.Errorf("game %s: listing replies: %v", g.ID, err)
	case len(replies) == 0 && g.state.IsCheck:
		g.resolve("checkmate")
	case len(replies) == 0:
		g.resolve("stalemate")
	case g.state.Board.HalfmoveClock >= 100:
		g.resolve("fiftyMoveRule")
	}

	ply.Notation = notation(before, m, captured != nil, g.state.IsCheck, err == nil && len(replies) == 0)

	// Add the ply to the move history
	if mover == chess.White || len(g.state.MoveHistory) == 0 {
		entry := Move{}
		if mover == chess.White {
			entry.WhitePly = &ply
		} else {
			entry.BlackPly = &ply
		}
		g.state.MoveHistory = append(g.state.MoveHistory, entry)
	} else {
		g.state.MoveHistory[len(g.state.MoveHistory)-1].BlackPly = &ply
	}

	switch {
	case g.state.IsCheck:
		g.state.Sound = "check"
	case m.Event == chess.EventCastle:
		g.state.Sound = "castle"
	case captured != nil:
		g.state.Sound = "capture"
	default:
		g.state.Sound = "move"
	}
	g.state.FEN = g.state.Board.FEN()
	g.state.LastMove = &SimpleMove{From: m.From, To: m.To}
}

func (g *Game) resolve(result string) {
	g.state.Resolve = &result
	log.Infow("game resolved", "game", g.ID, "result", result)
}

// notation renders m in standard algebraic notation against the position
// it was played from.
func notation(before *BoardState, m chess.Move, capture, check, noReplies bool) string {
	var s string
	switch {
	case m.Event == chess.EventCastle && m.To.Col == 6:
		s = "O-O"
	case m.Event == chess.EventCastle:
		s = "O-O-O"
	case m.Mover.Kind == chess.Pawn:
		if capture {
			s = m.From.String()[:1] + "x"
		}
		s += m.To.String()
		if m.IsPromotion() {
			s += "=" + m.Promotion.Letter()
		}
	default:
		s = m.Mover.Kind.Letter() + disambiguation(before, m)
		if capture {
			s += "x"
		}
		s += m.To.String()
	}
	switch {
	case check && noReplies:
		s += "#"
	case check:
		s += "+"
	}
	return s
}

// disambiguation names the origin file, rank or both when another piece of
// the same kind could also move to m.To.
func disambiguation(before *BoardState, m chess.Move) string {
	all, err := before.AllLegalMoves(context.Background())
	if err != nil {
		return ""
	}
	ambiguous, sameFile, sameRank := false, false, false
	for _, other := range all {
		if other.To != m.To || other.From == m.From || other.Mover != m.Mover {
			continue
		}
		ambiguous = true
		sameFile = sameFile || other.From.Col == m.From.Col
		sameRank = sameRank || other.From.Row == m.From.Row
	}
	from := m.From.String()
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return from[:1]
	case !sameRank:
		return from[1:]
	}
	return from
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.state.Players.White.ID == playerID || g.state.Players.Black.ID == playerID || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotInGame
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	g.connections.connections[playerID] = &client{conn: conn}
	g.connections.mu.Unlock()
	log.Infow("connection registered", "game", g.ID, "player", playerID)

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Infow("connection unregistered", "game", g.ID, "player", playerID)
		delete(g.connections.connections, playerID)
	}
}

// Send writes msg to playerID's registered connection.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	c, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return ErrNotInGame
	}
	return c.send(msg)
}

func (g *Game) broadcastState() {
	state := g.GetState()
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}

	// copy the connections so nothing is written under the lock
	g.connections.mu.RLock()
	active := make(map[string]*client, len(g.connections.connections))
	for playerID, c := range g.connections.connections {
		active[playerID] = c
	}
	g.connections.mu.RUnlock()

	for playerID, c := range active {
		if err := c.send(msg); err != nil {
			log.Warnf("game %s: send state to %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID)
		}
	}
}
