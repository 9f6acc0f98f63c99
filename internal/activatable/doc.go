/*
Package activatable tracks the interactive regions of a rendered post.

Links, mentions, collapsible blocks and polls found while a post is laid
out are gathered in a Collector and handed to the Registry, which assigns
ids in collection order and keeps one element focused. Every layout pass
rebuilds the registry from scratch; focus follows the element through its
derived key ("hyperlink:<url>", "mention:<url>", "block:<kind>:<line>",
"poll:<line>").

Block collapse state is stored per source line and outlives rebuilds. It is
cleared when another post is displayed.
*/
package activatable
