package ontology

// DefaultVocabularyConfig returns the built-in field, type and value tables.
// Several keys are spelling variants found in the wiki data.
func DefaultVocabularyConfig() VocabularyConfig {
	return VocabularyConfig{
		Predicates: []PredicateConfig{
			{Keys: []string{"name", "fullname", "full name"}, IRI: "schema:name"},
			{Keys: []string{"othername", "other name", "other names", "othernames", "also known as", "aka", "nickname"}, IRI: "kg-ont:other_names", Class: "literal"},

			{Keys: []string{"birth", "birthdate", "born"}, IRI: "kg-ont:birthDate", Class: "literal"},
			{Keys: []string{"death", "deathdate", "died"}, IRI: "kg-ont:deathDate", Class: "literal"},
			{Keys: []string{"age"}, IRI: "schema:age", Class: "literal"},
			{Keys: []string{"height"}, IRI: "kg-ont:height", Class: "literal"},
			{Keys: []string{"weapons", "weapon"}, IRI: "kg-ont:weapons", Class: "literal"},
			{Keys: []string{"steed", "mount", "horse"}, IRI: "kg-ont:steed", Class: "literal"},
			{Keys: []string{"clothing", "clothes"}, IRI: "kg-ont:clothing", Class: "literal"},
			{Keys: []string{"hair"}, IRI: "kg-ont:hair", Class: "literal"},
			{Keys: []string{"eyes"}, IRI: "kg-ont:eyes", Class: "literal"},
			{Keys: []string{"rule"}, IRI: "kg-ont:rule", Class: "literal"},
			{Keys: []string{"ruleperiod"}, IRI: "kg-ont:rulePeriod", Class: "literal"},
			{Keys: []string{"timeline", "chronology"}, IRI: "kg-ont:timeline", Class: "literal", Structured: true},

			{Keys: []string{"birthlocation", "birth location", "brithlocation"}, IRI: "kg-ont:birthLocation", Class: "location"},
			{Keys: []string{"deathlocation", "death location"}, IRI: "kg-ont:deathLocation", Class: "location"},
			{Keys: []string{"birthplace"}, IRI: "schema:birthPlace", Class: "location"},
			{Keys: []string{"deathplace"}, IRI: "schema:deathPlace", Class: "location"},
			{Keys: []string{"location"}, IRI: "schema:location", Class: "location"},

			{Keys: []string{"parentage", "parents", "father", "mother"}, IRI: "kg-ont:parentage", Class: "relation"},
			{Keys: []string{"children", "child"}, IRI: "kg-ont:children", Class: "relation"},
			{Keys: []string{"spouse", "partner"}, IRI: "kg-ont:spouse", Class: "relation", FirstOnly: true},

			{Keys: []string{"gender"}, IRI: "schema:gender", Class: "gender"},
			{Keys: []string{"house", "family"}, IRI: "kg-ont:family", Class: "family"},
			{Keys: []string{"website"}, IRI: "schema:url", Class: "url"},

			{Keys: []string{"race"}, IRI: "kg-ont:race"},
			{Keys: []string{"titles", "title", "position"}, IRI: "kg-ont:position"},
			{Keys: []string{"occupation"}, IRI: "kg-ont:occupation"},
			{Keys: []string{"eyecolor", "eye color"}, IRI: "kg-ont:eyeColor"},
			{Keys: []string{"haircolor", "hair color"}, IRI: "kg-ont:hairColor"},
			{Keys: []string{"skin", "skin colour"}, IRI: "kg-ont:skinColor"},
			{Keys: []string{"color", "colour"}, IRI: "kg-ont:color"},
			{Keys: []string{"image"}, IRI: "schema:image"},
			{Keys: []string{"caption"}, IRI: "schema:caption"},
			{Keys: []string{"people"}, IRI: "kg-ont:people"},
			{Keys: []string{"pronun", "pronunciation"}, IRI: "kg-ont:pronunciation"},
			{Keys: []string{"notablefor", "notable for", "description"}, IRI: "schema:description"},
			{Keys: []string{"affiliation"}, IRI: "kg-ont:affiliation"},
			{Keys: []string{"siblings", "sibling"}, IRI: "kg-ont:sibling"},
			{Keys: []string{"education", "educated"}, IRI: "schema:educationalCredentialAwarded"},
			{Keys: []string{"language", "languages"}, IRI: "schema:inLanguage"},
			{Keys: []string{"realm"}, IRI: "kg-ont:realm"},
			{Keys: []string{"created"}, IRI: "kg-ont:created"},
			{Keys: []string{"destroyed"}, IRI: "kg-ont:destroyed"},
			{Keys: []string{"owner"}, IRI: "kg-ont:owner"},
			{Keys: []string{"creator"}, IRI: "kg-ont:creator"},
			{Keys: []string{"publisher"}, IRI: "schema:publisher"},
			{Keys: []string{"author"}, IRI: "schema:author"},
			{Keys: []string{"released", "releasedate", "published"}, IRI: "schema:datePublished"},
			{Keys: []string{"director"}, IRI: "schema:director"},
			{Keys: []string{"genre"}, IRI: "schema:genre"},
			{Keys: []string{"platform"}, IRI: "schema:applicationCategory"},
			{Keys: []string{"developer"}, IRI: "schema:developer"},
			{Keys: []string{"founded"}, IRI: "schema:foundingDate"},
			{Keys: []string{"founder"}, IRI: "schema:founder"},
			{Keys: []string{"type"}, IRI: "schema:additionalType"},
			{Keys: []string{"inhabitants"}, IRI: "kg-ont:inhabitants"},
			{Keys: []string{"events"}, IRI: "kg-ont:events"},
			{Keys: []string{"regions"}, IRI: "kg-ont:regions"},
			{Keys: []string{"settlements"}, IRI: "kg-ont:settlements"},
			{Keys: []string{"purpose"}, IRI: "kg-ont:purpose"},
			{Keys: []string{"members"}, IRI: "kg-ont:members"},
			{Keys: []string{"origin"}, IRI: "kg-ont:origin"},
			{Keys: []string{"lifespan"}, IRI: "kg-ont:lifespan"},
			{Keys: []string{"heritage"}, IRI: "kg-ont:heritage"},
			{Keys: []string{"hoard"}, IRI: "kg-ont:hoard"},
			{Keys: []string{"slayer"}, IRI: "kg-ont:slayer"},
			{Keys: []string{"ruler"}, IRI: "kg-ont:ruler"},
		},
		Types: []TypeConfig{
			{Keys: []string{"character", "characters"}, IRI: "kg-ont:Character"},
			{Keys: []string{"person", "people", "author", "artist", "modernpeople", "scholar"}, IRI: "schema:Person"},
			{Keys: []string{"location", "place", "settlement", "city", "region", "river", "mountain"}, IRI: "kg-ont:Location"},
			{Keys: []string{"film", "movie"}, IRI: "schema:Movie"},
			{Keys: []string{"episode"}, IRI: "schema:TVEpisode"},
			{Keys: []string{"tv", "tvseries", "series"}, IRI: "schema:TVSeries"},
			{Keys: []string{"book", "novel"}, IRI: "schema:Book"},
			{Keys: []string{"poem", "letter"}, IRI: "schema:CreativeWork"},
			{Keys: []string{"album"}, IRI: "schema:MusicAlbum"},
			{Keys: []string{"song", "single"}, IRI: "schema:MusicRecording"},
			{Keys: []string{"video game", "videogame"}, IRI: "schema:VideoGame"},
			{Keys: []string{"board game", "puzzle"}, IRI: "schema:Game"},
			{Keys: []string{"organization", "company", "group"}, IRI: "schema:Organization"},
			{Keys: []string{"noble house", "house"}, IRI: "kg-ont:House"},
			{Keys: []string{"object", "artifact", "weapon"}, IRI: "kg-ont:Object"},
			{Keys: []string{"race"}, IRI: "kg-ont:Race"},
			{Keys: []string{"language"}, IRI: "schema:Language"},
			{Keys: []string{"battle", "war"}, IRI: "kg-ont:Battle"},
		},
		Genders: map[string]string{
			"male":              "Male",
			"female":            "Female",
			"stallion":          "Stallion",
			"male (presumably)": "Male (presumably)",
		},
		LocationEmptySignals: []string{"", "unknown", "n/a", "none", "never", "nowhere"},
		RelationEmptySignals: []string{"", "unknown", "n/a", "none"},
		NegativePhrases:      []string{"never married", "other foul creatures"},
		NegativePairs:        [][]string{{"unknown", "parent"}},
		Heuristics: HeuristicsConfig{
			Biography:       []string{"gender", "birth", "death", "race", "parentage", "children", "spouse"},
			ModernBiography: []string{"occupation", "born", "died", "education", "website"},
			Place:           []string{"location", "map", "settlement", "regions", "towns", "inhabitants"},
			Film:            []string{"film", "episode", "runtime", "director", "imdb_id"},
			Book:            []string{"book", "isbn", "publisher", "published"},
			Game:            []string{"platform", "genre", "video game", "releasedate"},
		},
	}
}
