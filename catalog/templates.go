package catalog

// builtinTemplates is the built-in archetype library, keyed by realm.
var builtinTemplates = map[string][]Template{
	"Fantasy": {
		{
			Name:             "Kaelen",
			Class:            "ranger",
			Archetype:        "elf",
			Traits:           []string{"observant", "loyal", "reserved"},
			Alignment:        "neutral good",
			Background:       "A warden of the northern woods who left after the old forest burned.",
			Quirks:           []string{"whittles arrows while talking", "names every bird he sees"},
			BaseHealth:       34,
			PrimaryAttribute: "dexterity",
		},
		{
			Name:             "Sister Maren",
			Class:            "cleric",
			Archetype:        "human",
			Traits:           []string{"empathetic", "protective", "stubborn"},
			Alignment:        "lawful good",
			Background:       "A field medic of the Dawn Order, sworn to leave no one behind.",
			Quirks:           []string{"hums hymns under her breath", "collects pressed flowers"},
			BaseHealth:       30,
			BaseResource:     25,
			PrimaryAttribute: "wisdom",
		},
		{
			Name:             "Brakka",
			Class:            "warrior",
			Archetype:        "half-orc",
			Traits:           []string{"brave", "blunt", "loyal"},
			Alignment:        "chaotic good",
			Background:       "A pit fighter who bought her freedom and never looked back.",
			Quirks:           []string{"laughs at danger", "keeps a tally of won bets on her bracer"},
			BaseHealth:       44,
			PrimaryAttribute: "strength",
		},
		{
			Name:             "Whistle",
			Class:            "rogue",
			Archetype:        "halfling",
			Traits:           []string{"curious", "quick-witted", "restless"},
			Alignment:        "chaotic neutral",
			Background:       "A courier from the undercity who knows a door for every wall.",
			Quirks:           []string{"juggles a coin when thinking", "never sits with his back to a door"},
			BaseHealth:       26,
			PrimaryAttribute: "dexterity",
		},
		{
			Name:             "Aldric the Grey",
			Class:            "wizard",
			Archetype:        "human",
			Traits:           []string{"wise", "patient", "aloof"},
			Alignment:        "true neutral",
			Background:       "A librarian of the Shattered Academy, still cataloguing what was lost.",
			Quirks:           []string{"quotes dead philosophers", "smells faintly of ozone"},
			BaseHealth:       24,
			BaseResource:     35,
			PrimaryAttribute: "intelligence",
		},
	},
	"SciFi": {
		{
			Name:             "Vex-9",
			Class:            "engineer",
			Archetype:        "android",
			Traits:           []string{"analytical", "helpful", "literal"},
			Alignment:        "lawful neutral",
			Background:       "A salvage unit that outlived its crew and chose a new one.",
			Quirks:           []string{"reports odds to two decimal places", "hoards spare bolts"},
			BaseHealth:       38,
			BaseResource:     30,
			PrimaryAttribute: "intelligence",
		},
		{
			Name:             "Captain Osei",
			Class:            "warrior",
			Archetype:        "human",
			Traits:           []string{"brave", "experienced", "protective"},
			Alignment:        "neutral good",
			Background:       "A decorated orbital marine who resigned over an order she refused.",
			Quirks:           []string{"checks her sidearm twice before every door", "drinks recycled coffee cold"},
			BaseHealth:       42,
			PrimaryAttribute: "strength",
		},
		{
			Name:             "Lyra Tan",
			Class:            "medic",
			Archetype:        "human",
			Traits:           []string{"empathetic", "calm", "wry"},
			Alignment:        "neutral good",
			Background:       "A frontier doctor who has stitched up half the outer ring.",
			Quirks:           []string{"labels everything", "talks to her autosurgeon like a pet"},
			BaseHealth:       28,
			BaseResource:     24,
			PrimaryAttribute: "wisdom",
		},
	},
	"Horror": {
		{
			Name:             "Father Crowe",
			Class:            "cleric",
			Archetype:        "human",
			Traits:           []string{"wise", "haunted", "protective"},
			Alignment:        "lawful neutral",
			Background:       "An exorcist who stopped believing in everything except what he fights.",
			Quirks:           []string{"salts doorways out of habit", "never says names after midnight"},
			BaseHealth:       28,
			BaseResource:     20,
			PrimaryAttribute: "wisdom",
		},
		{
			Name:             "Edda Vane",
			Class:            "investigator",
			Archetype:        "human",
			Traits:           []string{"curious", "skeptical", "relentless"},
			Alignment:        "chaotic good",
			Background:       "A disgraced journalist chasing the story that ended her career.",
			Quirks:           []string{"photographs everything", "chain-chews peppermints"},
			BaseHealth:       26,
			PrimaryAttribute: "intelligence",
		},
		{
			Name:             "Moss",
			Class:            "ranger",
			Archetype:        "drifter",
			Traits:           []string{"observant", "quiet", "loyal"},
			Alignment:        "true neutral",
			Background:       "A groundskeeper who knows which graves to leave undisturbed.",
			Quirks:           []string{"speaks in single sentences", "feeds crows by name"},
			BaseHealth:       32,
			PrimaryAttribute: "dexterity",
		},
	},
	"Modern": {
		{
			Name:             "Dez Okafor",
			Class:            "medic",
			Archetype:        "human",
			Traits:           []string{"helpful", "empathetic", "unflappable"},
			Alignment:        "neutral good",
			Background:       "A night-shift paramedic who has seen the city at its worst and stayed.",
			Quirks:           []string{"carries three kinds of tape", "rates diners by their coffee"},
			BaseHealth:       30,
			BaseResource:     18,
			PrimaryAttribute: "wisdom",
		},
		{
			Name:             "June Park",
			Class:            "investigator",
			Archetype:        "human",
			Traits:           []string{"analytical", "wry", "persistent"},
			Alignment:        "lawful neutral",
			Background:       "A former insurance fraud examiner who got too good at spotting lies.",
			Quirks:           []string{"keeps receipts for everything", "finishes other people's sentences"},
			BaseHealth:       26,
			PrimaryAttribute: "intelligence",
		},
		{
			Name:             "Marcus Bell",
			Class:            "warrior",
			Archetype:        "human",
			Traits:           []string{"brave", "loyal", "blunt"},
			Alignment:        "chaotic good",
			Background:       "A retired bodyguard who never learned to stand on the sidelines.",
			Quirks:           []string{"positions himself near exits", "cracks his knuckles before bad news"},
			BaseHealth:       40,
			PrimaryAttribute: "strength",
		},
	},
}
