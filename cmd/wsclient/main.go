// Manual smoke-test client: spins up N websocket players against a running
// server, the first creating a room and the rest joining it, then spams
// draw and guess traffic while printing everything the server sends back.
//
//	go run ./cmd/wsclient <number_of_clients> [roomId]
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const wsURL = "ws://localhost:3001/ws"

type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	args := os.Args
	if len(args) < 2 {
		log.Fatal("Usage: wsclient <number_of_clients> [roomId]")
	}

	numClients, err := strconv.Atoi(args[1])
	if err != nil || numClients < 1 {
		log.Fatal("Invalid number of clients")
	}

	roomID := fmt.Sprintf("smoke-%d", rand.Intn(10000))
	join := false
	if len(args) >= 3 {
		roomID = args[2]
		join = true
	}

	// First client creates (or joins) the room, the rest always join.
	go runClient(roomID, "player0", join)
	time.Sleep(1 * time.Second) // let the room spin up
	for i := 1; i < numClients; i++ {
		go runClient(roomID, fmt.Sprintf("player%d", i), true)
	}

	select {} // let the goroutines run
}

func runClient(roomID, name string, join bool) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?username="+name, nil)
	if err != nil {
		log.Fatal("WS connect error: ", err)
	}
	defer conn.Close()

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Printf("%s: read error: %v", name, err)
				return
			}
			fmt.Printf("%s <- %s\n", name, data)
		}
	}()

	op := "joinRoom"
	if !join {
		op = "createRoom"
	}
	send(conn, name, op, fmt.Sprintf(`{"roomId":%q,"username":%q}`, roomID, name))
	send(conn, name, "getRooms", `{}`)

	spam := []func() (string, string){
		func() (string, string) {
			return "draw", fmt.Sprintf(`{"room":%q,"drawData":{"x":%d,"y":%d,"color":"#000000"}}`, roomID, rand.Intn(800), rand.Intn(600))
		},
		func() (string, string) {
			return "guess", fmt.Sprintf(`{"room":%q,"guess":"cat"}`, roomID)
		},
		func() (string, string) {
			return "clearCanvas", fmt.Sprintf(`{"room":%q}`, roomID)
		},
	}

	for i := 0; i < 100; i++ {
		typ, payload := spam[rand.Intn(len(spam))]()
		send(conn, name, typ, payload)
		time.Sleep(time.Duration(100+rand.Intn(900)) * time.Millisecond)
	}

	fmt.Printf("%s finished sending messages\n", name)
	select {} // keep reading broadcasts
}

func send(conn *websocket.Conn, name, typ, payload string) {
	msg := message{Type: typ, Data: json.RawMessage(payload)}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("%s: marshal error: %v", name, err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("%s: write error: %v", name, err)
	}
}
