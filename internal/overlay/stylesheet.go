package overlay

// Stylesheet positions markers and the tooltip and colors them by impact.
const Stylesheet = `
.billie--alert{position:absolute;z-index:2147483646;box-sizing:border-box;border:3px solid;cursor:pointer;pointer-events:auto;}
.billie--alert--minor{border-color:#1d70b8;}
.billie--alert--moderate{border-color:#f4b400;}
.billie--alert--serious{border-color:#f47738;}
.billie--alert--critical{border-color:#d4351c;}
.billie--tooltip{position:absolute;z-index:2147483647;max-width:480px;padding:12px 36px 12px 12px;background:#fff;color:#0b0c0c;border:1px solid #b1b4b6;border-radius:4px;box-shadow:0 4px 12px rgba(0,0,0,.2);font:14px/1.4 sans-serif;}
.billie--tooltip--right{text-align:right;}
.billie--tooltip__title{margin:0 0 8px;font-weight:700;}
.billie--tooltip__message{display:flex;gap:8px;align-items:flex-start;}
.billie--tooltip--right .billie--tooltip__message{flex-direction:row-reverse;}
.billie--tooltip__close{position:absolute;top:6px;right:6px;border:0;background:none;font-size:18px;cursor:pointer;}
.billie--tooltip--right .billie--tooltip__close{right:auto;left:6px;}
.billie--icon--minor{color:#1d70b8;}
.billie--icon--moderate{color:#f4b400;}
.billie--icon--serious{color:#f47738;}
.billie--icon--critical{color:#d4351c;}
`
