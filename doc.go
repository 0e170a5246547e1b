/*
Package texgen infers parsing patterns from sample lines of semi-structured
text. Given some lines that share their structure but vary in certain
positions, e.g. counters, addresses or names, texgen finds for each position
the most specific kind of data that covers all observed values. From this it
renders a regular expression with named captures and a template snippet.

# Kinds

Each value is classified into one Kind of a closed lattice. The single-token
kinds are

	digit letter punct non_whitespace
	digits number mixed_number letters alphabet_numeric puncts graph
	word mixed_word non_whitespaces

Values with embedded whitespace are classified into the group kinds words,
mixed_words, puncts_group and non_whitespaces_group. Two kinds are combined
with Join, that returns the least kind covering both of them:

	k, _ := texgen.Join(texgen.Number, texgen.MixedNumber) // mixed_number

# Aligning Lines

An AlignedLine aligns the words of sample lines. Positions where all samples
agree stay literal Text, the others become a Change that accumulates the
observed values:

	al := texgen.NewAlignedLine("eth0 up 1500", "")
	al.Add("eth1 down 1500")
	al.Pattern() // (?P<v0>[a-zA-Z][a-zA-Z0-9]*) (?P<v1>[a-zA-Z]+) 1500

# Line Patterns and Snippets

A LinePattern turns a raw line into one field per token. Its snippet shows
the fields and can be edited to split fields or to pin fields as captured
values:

	capture(3,2) keep() action(0-split): mixed_word(var=v0, value=utun0:) letters(var=v1, value=mtu) digits(var=v2, value=1380)

Merging the edited snippet back into the LinePattern applies the directives.
Merging further raw lines generalizes the kinds of the fields. Finally
Regex and TemplateSnippet render the result.

Package verify replays text against an ordered list of such regexes and
package gentest uses it to check the output of Go tests.
*/
package texgen
