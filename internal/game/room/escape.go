package room

// Room ids of the prison escape game.
const (
	Cell    ID = "cell"
	Tunnel  ID = "tunnel"
	Sewer   ID = "sewer"
	Escaped ID = "escaped"
	Caught  ID = "caught"
)

// EscapeCode opens the gate in the sewer.
const EscapeCode = "132"

var defaultRegistry = mustBuildDefault()

// Default returns the process-wide escape game registry.
func Default() *Registry {
	return defaultRegistry
}

// EscapeRooms returns the rooms of the escape game. Both the English tokens
// and the Dutch tokens are accepted.
func EscapeRooms() []Room {
	return []Room{
		New(Cell, "Cel",
			"Je bent onschuldig in een gevangenis beland. Je bent veroordeeld tot 5 jaar celstraf. "+
				"Er zit niets anders op dan je lot te aanvaarden. Totdat de bewaker langskomt en je een pakketje aanreikt. "+
				"Wat doe je? Als je het pakketje aanneemt is er een kans dat er iets leuks in zit of dat het een flauwe grap is. "+
				"Als je het pakketje niet aanneemt is er een kans dat de bewakers iets vinden waardoor ze je kunnen betrappen.",
			map[string]ID{
				"accept":   Tunnel,
				"aannemen": Tunnel,
				"refuse":   Caught,
				"weigeren": Caught,
			}),
		New(Tunnel, "Tunnel",
			"Zodra de bewaker weg is maak je het pakketje snel open. Er zit een brief in! Daarop staat een datum en een code: 132. "+
				"Dit moet wel van je handlanger zijn! De datum zal wel een mogelijke ontsnappingsdatum zijn. "+
				"Naast de brief zit er ook een schepje in het pakketje. Je graaft urenlang een tunnel en stuit op een harde muur. "+
				"Je kunt verder naar links of naar rechts. Er is maar een beperkte tijd, dus kies wijs!",
			map[string]ID{
				"left":   Caught,
				"links":  Caught,
				"right":  Sewer,
				"rechts": Sewer,
			}),
		New(Sewer, "Riool",
			"Je graaft door en komt in het riool terecht! Handel snel voordat de bewakers komen. Ai, daar is een hek. "+
				"Er zit een cijferslot aan. Dan schiet opeens de code van de brief je te binnen. Vul de drie-cijferige code in:",
			map[string]ID{
				EscapeCode: Escaped,
				Wildcard:   Caught,
			}),
		New(Escaped, "Ontsnapt",
			"Het slot springt open. Je opent het hek, rent door het riool en klimt omhoog naar een putdeksel. "+
				"Je kijkt om je heen en daar staat je handlanger te wachten in de auto. Je stapt in de auto. Je bent ontsnapt!",
			nil),
		New(Caught, "Betrapt",
			"Je bent betrapt! De bewaker duwt je terug de cel in.",
			nil),
	}
}

func mustBuildDefault() *Registry {
	registry, err := NewRegistry(Cell, EscapeRooms()...)
	if err != nil {
		panic(err)
	}
	return registry
}
