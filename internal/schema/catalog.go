// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import "github.com/pdiddy/translation-engine/pkg/types"

// itemDef is one entry of the item-type catalog: the fields an item type adds
// on top of the base set, and the creator roles it permits. The first creator
// role is the primary one.
type itemDef struct {
	fields       []string
	creatorTypes []string
}

// catalog maps each item type to its type-specific fields and creator roles.
// Field names follow the reference-manager vocabulary the items are exchanged
// in, so DOI and ISBN keep their upper-case spelling.
var catalog = map[types.ItemType]itemDef{
	types.ItemWebpage: {
		fields:       []string{"websiteTitle", "websiteType", "shortTitle", "language", "rights", "extra"},
		creatorTypes: []string{"author", "contributor", "translator"},
	},
	types.ItemJournalArticle: {
		fields: []string{
			"publicationTitle", "volume", "issue", "pages", "series", "seriesTitle", "seriesText",
			"journalAbbreviation", "DOI", "ISSN", "shortTitle", "language", "archive",
			"archiveLocation", "libraryCatalog", "callNumber", "rights", "extra",
		},
		creatorTypes: []string{"author", "contributor", "editor", "translator", "reviewedAuthor"},
	},
	types.ItemBook: {
		fields: []string{
			"series", "seriesNumber", "volume", "numberOfVolumes", "edition", "place", "publisher",
			"numPages", "ISBN", "shortTitle", "language", "archive", "archiveLocation",
			"libraryCatalog", "callNumber", "rights", "extra",
		},
		creatorTypes: []string{"author", "contributor", "editor", "translator", "seriesEditor"},
	},
	types.ItemBookSection: {
		fields: []string{
			"bookTitle", "series", "seriesNumber", "volume", "numberOfVolumes", "edition", "place",
			"publisher", "pages", "ISBN", "shortTitle", "language", "rights", "extra",
		},
		creatorTypes: []string{"author", "bookAuthor", "contributor", "editor", "seriesEditor", "translator"},
	},
	types.ItemDocument: {
		fields:       []string{"publisher", "shortTitle", "language", "archive", "archiveLocation", "rights", "extra"},
		creatorTypes: []string{"author", "contributor", "editor", "translator", "reviewedAuthor"},
	},
	types.ItemConferencePaper: {
		fields: []string{
			"proceedingsTitle", "conferenceName", "place", "publisher", "volume", "pages", "series",
			"DOI", "ISBN", "shortTitle", "language", "rights", "extra",
		},
		creatorTypes: []string{"author", "contributor", "editor", "seriesEditor", "translator"},
	},
	types.ItemThesis: {
		fields:       []string{"thesisType", "university", "place", "numPages", "shortTitle", "language", "rights", "extra"},
		creatorTypes: []string{"author", "contributor"},
	},
	types.ItemNewspaperArticle: {
		fields: []string{
			"publicationTitle", "place", "edition", "section", "pages", "ISSN", "shortTitle",
			"language", "rights", "extra",
		},
		creatorTypes: []string{"author", "contributor", "reviewedAuthor", "translator"},
	},
	types.ItemMagazineArticle: {
		fields: []string{
			"publicationTitle", "volume", "issue", "pages", "ISSN", "shortTitle", "language",
			"rights", "extra",
		},
		creatorTypes: []string{"author", "contributor", "reviewedAuthor", "translator"},
	},
	types.ItemBlogPost: {
		fields:       []string{"blogTitle", "websiteType", "shortTitle", "language", "rights", "extra"},
		creatorTypes: []string{"author", "commenter", "contributor"},
	},
	types.ItemForumPost: {
		fields:       []string{"forumTitle", "postType", "shortTitle", "language", "rights", "extra"},
		creatorTypes: []string{"author", "contributor"},
	},
	types.ItemPodcast: {
		fields:       []string{"seriesTitle", "episodeNumber", "audioFileType", "runningTime", "shortTitle", "language", "rights", "extra"},
		creatorTypes: []string{"podcaster", "contributor", "guest"},
	},
	types.ItemVideoRecording: {
		fields: []string{
			"videoRecordingFormat", "seriesTitle", "volume", "numberOfVolumes", "place", "studio",
			"runningTime", "ISBN", "shortTitle", "language", "rights", "extra",
		},
		creatorTypes: []string{"director", "castMember", "contributor", "producer", "scriptwriter"},
	},
}

// fieldHints are short descriptions rendered into extraction prompts. Fields
// without a hint are described by name and kind only.
var fieldHints = map[string]string{
	"title":               "the full title of the work",
	"creators":            "people responsible for the work, each with firstName, lastName and creatorType",
	"date":                "publication date, ISO 8601 (YYYY-MM-DD) when the day is known, otherwise YYYY-MM or YYYY",
	"url":                 "canonical URL of the work",
	"accessDate":          "date the source was accessed",
	"abstractNote":        "abstract or short summary taken from the text",
	"tags":                "subject keywords",
	"notes":               "free-form notes",
	"publicationTitle":    "name of the journal, newspaper or magazine",
	"websiteTitle":        "name of the website",
	"blogTitle":           "name of the blog",
	"forumTitle":          "name of the forum",
	"bookTitle":           "title of the containing book",
	"proceedingsTitle":    "title of the conference proceedings",
	"conferenceName":      "name of the conference",
	"DOI":                 "digital object identifier without the https://doi.org/ prefix",
	"ISBN":                "ISBN-10 or ISBN-13",
	"ISSN":                "ISSN of the serial",
	"pages":               "page range, e.g. 12-19",
	"numPages":            "total number of pages",
	"language":            "ISO 639-1 language code",
	"university":          "degree-granting institution",
	"thesisType":          "e.g. PhD thesis, Master's thesis",
	"runningTime":         "duration, e.g. 1:02:30",
	"journalAbbreviation": "abbreviated journal name",
	"shortTitle":          "short form of the title",
}
