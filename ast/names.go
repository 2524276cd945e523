package ast

// Production and token names the interpreter dispatches on. These mirror
// the grammar referenced throughout spec.md §4; keeping them as named
// constants (rather than inline string literals scattered through interp)
// is the Go analogue of the source's grammar-production dispatch table
// (spec §9).
const (
	NStart         = "start"
	NCodeBlock     = "code_block"
	NNodeCtxBlock  = "node_ctx_block"
	NStatement     = "statement"
	NIfStmt        = "if_stmt"
	NElifStmt      = "elif_stmt"
	NElseStmt      = "else_stmt"
	NForToStmt     = "for_to_stmt"
	NForInStmt     = "for_in_stmt"
	NWhileStmt     = "while_stmt"
	NCtrlStmt      = "ctrl_stmt"
	NReportAction  = "report_action"
	NAttrStmt      = "attr_stmt"
	NHasStmt       = "has_stmt"
	NHasAssign     = "has_assign"
	NCanStmt       = "can_stmt"
	NEventClause   = "event_clause"

	NExpression  = "expression"
	NAssignment  = "assignment"
	NCopyAssign  = "copy_assign"
	NIncAssign   = "inc_assign"
	NConnect     = "connect"
	NLogical     = "logical"
	NCompare     = "compare"
	NCmpOp       = "cmp_op"
	NArithmetic  = "arithmetic"
	NTerm        = "term"
	NFactor      = "factor"
	NPower       = "power"
	NFuncCall    = "func_call"
	NAtom        = "atom"
	NFuncBuiltin = "func_built_in"
	NIndex       = "index"
	NListVal     = "list_val"
	NDictVal     = "dict_val"
	NKVPair      = "kv_pair"
	NExprList    = "expr_list"
	NNameList    = "name_list"
	NDottedName  = "dotted_name"
	NDeref       = "deref"

	NNodeEdgeRef = "node_edge_ref"
	NNodeRef     = "node_ref"
	NWalkerRef   = "walker_ref"
	NGraphRef    = "graph_ref"
	NEdgeRef     = "edge_ref"
	NEdgeTo      = "edge_to"
	NEdgeFrom    = "edge_from"
	NEdgeAny     = "edge_any"

	NSpawn        = "spawn"
	NSpawnObject  = "spawn_object"
	NNodeSpawn    = "node_spawn"
	NWalkerSpawn  = "walker_spawn"
	NGraphSpawn   = "graph_spawn"
	NSpawnCtx     = "spawn_ctx"
	NSpawnAssign  = "spawn_assign"
	NFilterCtx    = "filter_ctx"
	NFilterCmp    = "filter_compare"

	// Leaf token names.
	TInt       = "INT"
	TFloat     = "FLOAT"
	TString    = "STRING"
	TBool      = "BOOL"
	TName      = "NAME"
	TNot       = "NOT"
	TAnd       = "KW_AND"
	TOr        = "KW_OR"
	TBreak     = "KW_BREAK"
	TContinue  = "KW_CONTINUE"
	TSkip      = "KW_SKIP"
	TPrivate   = "KW_PRIVATE"
	TAnchor    = "KW_ANCHOR"
	TEntry     = "entry"
	TExit      = "exit"
	TActivity  = "activity"
	TEq        = "EE"
	TNe        = "NE"
	TLt        = "LT"
	TLte       = "LTE"
	TGt        = "GT"
	TGte       = "GTE"
	TIn        = "KW_IN"
	TNotIn     = "nin"
	TPlus      = "PLUS"
	TMinus     = "MINUS"
	TMul       = "MUL"
	TDiv       = "DIV"
	TMod       = "MOD"
	TPow       = "POW"
	TAssignEq  = "EQ"
	TCopyEq    = "CPY_EQ"
	TPlusEq    = "PEQ"
	TMinusEq   = "MEQ"
	TMulEq     = "TEQ"
	TDivEq     = "DEQ"
	TLength    = "KW_LENGTH"
	TKeys      = "KW_KEYS"
	TEdge      = "KW_EDGE"
	TNode      = "KW_NODE"
	TContext   = "KW_CONTEXT"
	TInfo      = "KW_INFO"
	TDetails   = "KW_DETAILS"
	TDestroy   = "KW_DESTROY"
	TNodeKw    = "KW_NODE_KW" // disambiguates node:: in ref position (kept distinct from TNode dot-builtin)
)
