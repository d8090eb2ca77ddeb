/*
Package lcfrs is about parsing with grammars for discontinuous constituents.

Description

Linear Context-Free Rewriting Systems (LCFRS), or their notational
variant simple Range Concatenation Grammars (sRCG), extend context-free
grammars by allowing a non-terminal to span more than one range of the
input. A verb phrase of a German subordinate clause, or an English
wh-extraction, may thus be represented as a single constituent with a
gap:

	VP( X , Y ) → PP(X) V(Y)

A non-terminal covering k ranges is said to have a fan-out of k. This
module restricts itself to grammars in binary form with a fan-out of at
most two, where every clause has at most two children and every
predicate has at most two arguments. Grammars of this shape are the
output of binarization of treebank grammars and already cover the
majority of discontinuities found in natural language treebanks.

Parsing is done by an agenda-driven A* chart parser. Items are
proven in order of their inside cost plus an admissible estimate of the
outside cost, which is computed once per grammar from an abstraction of
spans (total length, or a bit-pattern of arguments).

Packages

Package grammar holds labels, clauses and their classification into a
closed set of join types; package grammar/notation reads grammars
from a textual clause notation. Package chart holds the item model and the
chart of proven items, package agenda a priority queue with
decrease-key. Package estimate computes context-summary estimates,
package parser runs the deduction loop.

BSD License

Copyright (c) 2021, Norbert Pillmayer

All rights reserved.
Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package lcfrs
